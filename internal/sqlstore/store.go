// Package sqlstore keeps tasks in a single SQLite database.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // database/sql driver

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// Store is a task source backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("preparing schema: %w", err)
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL DEFAULT 'normal',
	due_date TEXT DEFAULT NULL,
	due_qualifier TEXT NOT NULL DEFAULT '',
	target_deadline TEXT DEFAULT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	completed_date TEXT DEFAULT NULL,
	archived INTEGER NOT NULL DEFAULT 0,
	tags TEXT NOT NULL DEFAULT '[]',
	created TEXT NOT NULL,
	updated TEXT NOT NULL
);`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return err
	}
	return s.ensureColumns(ctx)
}

// ensureColumns adds columns introduced after the first schema.
func (s *Store) ensureColumns(ctx context.Context) error {
	required := map[string]string{
		"go_live_date": "ALTER TABLE tasks ADD COLUMN go_live_date TEXT DEFAULT NULL;",
		"people":       "ALTER TABLE tasks ADD COLUMN people TEXT NOT NULL DEFAULT '[]';",
		"depends_on":   "ALTER TABLE tasks ADD COLUMN depends_on TEXT NOT NULL DEFAULT '[]';",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.QueryContext(ctx, `PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.ExecContext(ctx, alter); err != nil {
			return err
		}
	}
	return nil
}

const columns = `id, title, description, priority, due_date, due_qualifier, target_deadline,
	go_live_date, completed, completed_date, archived, tags, people, depends_on, created, updated`

// Load returns every task ordered by creation time. Rows that cannot be
// decoded are skipped and reported as warnings.
func (s *Store) Load(ctx context.Context) ([]*task.Task, []task.ReadWarning, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+columns+` FROM tasks ORDER BY created, id;`)
	if err != nil {
		return nil, nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	var warnings []task.ReadWarning
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.title, &r.description, &r.priority, &r.due, &r.qualifier,
			&r.deadline, &r.goLive, &r.completed, &r.completedDate, &r.archived,
			&r.tags, &r.people, &r.dependsOn, &r.created, &r.updated); err != nil {
			return nil, nil, fmt.Errorf("scanning task: %w", err)
		}
		t, err := r.decode()
		if err != nil {
			warnings = append(warnings, task.ReadWarning{File: "row " + r.id, Err: err})
			continue
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading tasks: %w", err)
	}
	return tasks, warnings, nil
}

// Save inserts t or replaces the stored row with the same ID.
func (s *Store) Save(ctx context.Context, t *task.Task) error {
	tags, err := encodeList(t.TagIDs)
	if err != nil {
		return err
	}
	people, err := encodeList(t.PersonIDs)
	if err != nil {
		return err
	}
	deps, err := encodeList(t.DependsOn)
	if err != nil {
		return err
	}
	var completedDate sql.NullString
	if t.CompletedDate != nil {
		completedDate = sql.NullString{String: t.CompletedDate.Format(time.RFC3339), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO tasks (`+columns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title = excluded.title,
	description = excluded.description,
	priority = excluded.priority,
	due_date = excluded.due_date,
	due_qualifier = excluded.due_qualifier,
	target_deadline = excluded.target_deadline,
	go_live_date = excluded.go_live_date,
	completed = excluded.completed,
	completed_date = excluded.completed_date,
	archived = excluded.archived,
	tags = excluded.tags,
	people = excluded.people,
	depends_on = excluded.depends_on,
	updated = excluded.updated;`,
		t.ID, t.Title, t.Description, string(t.Priority), instantText(t.DueDate), string(t.DueQualifier),
		instantText(t.TargetDeadline), instantText(t.GoLiveDate), boolInt(t.Completed), completedDate,
		boolInt(t.Archived), tags, people, deps,
		t.Created.Format(time.RFC3339Nano), t.Updated.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving task %s: %w", t.ID, err)
	}
	return nil
}

// Remove deletes the task with the given ID.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	if n == 0 {
		return clierr.Newf(clierr.TaskNotFound, "task not found: %s", id).
			WithDetails(map[string]any{"id": id})
	}
	return nil
}

type row struct {
	id, title, description, priority string
	due                                 sql.NullString
	qualifier                           string
	deadline, goLive                    sql.NullString
	completed                           int
	completedDate                       sql.NullString
	archived                            int
	tags, people, dependsOn             string
	created, updated                    string
}

func (r row) decode() (*task.Task, error) {
	t := &task.Task{
		ID:             r.id,
		Title:          r.title,
		Description:    r.description,
		Priority:       task.Priority(r.priority),
		DueDate:        instantPtr(r.due),
		DueQualifier:   task.DueQualifier(r.qualifier),
		TargetDeadline: instantPtr(r.deadline),
		GoLiveDate:     instantPtr(r.goLive),
		Completed:      r.completed == 1,
		Archived:       r.archived == 1,
	}
	var err error
	if t.TagIDs, err = decodeList("tags", r.tags); err != nil {
		return nil, err
	}
	if t.PersonIDs, err = decodeList("people", r.people); err != nil {
		return nil, err
	}
	if t.DependsOn, err = decodeList("depends_on", r.dependsOn); err != nil {
		return nil, err
	}
	if t.Created, err = time.Parse(time.RFC3339Nano, r.created); err != nil {
		return nil, fmt.Errorf("created: %w", err)
	}
	if t.Updated, err = time.Parse(time.RFC3339Nano, r.updated); err != nil {
		return nil, fmt.Errorf("updated: %w", err)
	}
	if r.completedDate.Valid {
		cd, err := time.Parse(time.RFC3339, r.completedDate.String)
		if err != nil {
			return nil, fmt.Errorf("completed_date: %w", err)
		}
		t.CompletedDate = &cd
	}
	return t, nil
}

// instantPtr keeps malformed text so the task still loads.
func instantPtr(s sql.NullString) *date.Instant {
	if !s.Valid {
		return nil
	}
	in := date.ParseInstant(s.String)
	if in.Blank() {
		return nil
	}
	return &in
}

func instantText(in *date.Instant) sql.NullString {
	if in == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: in.String(), Valid: true}
}

func encodeList(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(data), nil
}

func decodeList(field, text string) ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(text), &ids); err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func dsn(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
