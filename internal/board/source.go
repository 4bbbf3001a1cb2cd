package board

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/config"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/sqlstore"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// Source is where tasks are persisted.
type Source interface {
	Load(ctx context.Context) ([]*task.Task, []task.ReadWarning, error)
	Save(ctx context.Context, t *task.Task) error
	Remove(ctx context.Context, id string) error
	Close() error
}

// Open returns the source selected by cfg.Storage.Backend.
func Open(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return sqlstore.Open(ctx, cfg.DBPath())
	case config.BackendFiles, "":
		return NewFileSource(cfg.TasksPath()), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", config.ErrInvalid, cfg.Storage.Backend)
	}
}

// FileSource stores each task as a markdown file named <id>-<slug>.md.
type FileSource struct {
	dir string
}

// NewFileSource returns a source reading and writing task files in dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Dir returns the tasks directory.
func (s *FileSource) Dir() string { return s.dir }

// Load reads every task file. Malformed files become warnings.
func (s *FileSource) Load(_ context.Context) ([]*task.Task, []task.ReadWarning, error) {
	return task.ReadAllLenient(s.dir)
}

// Save writes t to its file, renaming it when the title changed.
func (s *FileSource) Save(_ context.Context, t *task.Task) error {
	const dirMode = 0o750
	if err := os.MkdirAll(s.dir, dirMode); err != nil {
		return fmt.Errorf("creating tasks directory: %w", err)
	}

	path := filepath.Join(s.dir, task.GenerateFilename(t.ID, t.Title))
	old := t.File
	if old == "" {
		if existing, err := task.FindByID(s.dir, t.ID); err == nil {
			old = existing
		}
	}
	if err := task.Write(path, t); err != nil {
		return err
	}
	if old != "" && old != path {
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing old task file: %w", err)
		}
	}
	t.File = path
	return nil
}

// Remove deletes the task file for id.
func (s *FileSource) Remove(_ context.Context, id string) error {
	path, err := task.FindByID(s.dir, id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting task file: %w", err)
	}
	return nil
}

// Close is a no-op for files.
func (s *FileSource) Close() error { return nil }
