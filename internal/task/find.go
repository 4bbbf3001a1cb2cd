package task

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sourcegraph/conc/iter"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
)

// idPrefixRe matches the ULID prefix of a task filename.
var idPrefixRe = regexp.MustCompile(`^([0-9A-Za-z]{26})-`)

// FindByID scans the tasks directory for a file matching the given ID.
// Returns the full path to the task file.
func FindByID(tasksDir, id string) (string, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		return "", fmt.Errorf("reading tasks directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		fileID, err := ExtractIDFromFilename(name)
		if err != nil {
			continue
		}
		if strings.EqualFold(fileID, id) {
			return filepath.Join(tasksDir, name), nil
		}
	}

	return "", clierr.Newf(clierr.TaskNotFound, "task not found: %s", id).
		WithDetails(map[string]any{"id": id})
}

// ReadWarning describes a file that could not be parsed during lenient reading.
type ReadWarning struct {
	File string // base filename
	Err  error
}

type readResult struct {
	task *Task
	warn *ReadWarning
}

// ReadAllLenient reads all task files, skipping malformed files instead of aborting.
// Files are parsed concurrently; the result keeps directory order.
func ReadAllLenient(tasksDir string) ([]*Task, []ReadWarning, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		names = append(names, entry.Name())
	}

	results := iter.Map(names, func(name *string) readResult {
		t, readErr := Read(filepath.Join(tasksDir, *name))
		if readErr != nil {
			return readResult{warn: &ReadWarning{File: *name, Err: readErr}}
		}
		return readResult{task: t}
	})

	var tasks []*Task
	var warnings []ReadWarning
	for _, r := range results {
		if r.warn != nil {
			warnings = append(warnings, *r.warn)
			continue
		}
		tasks = append(tasks, r.task)
	}
	return tasks, warnings, nil
}

// ExtractIDFromFilename extracts the ID from a task filename.
func ExtractIDFromFilename(filename string) (string, error) {
	matches := idPrefixRe.FindStringSubmatch(filename)
	if len(matches) < 2 { //nolint:mnd // regex capture group
		return "", fmt.Errorf("cannot extract ID from filename %q", filename)
	}
	return matches[1], nil
}
