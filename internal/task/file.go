package task

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/date"
)

const fileMode = 0o600

// Read parses a task file and returns the Task with its description populated.
func Read(path string) (*Task, error) {
	data, err := os.ReadFile(path) //nolint:gosec // task path from trusted source
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}
	t, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	t.File = path
	return t, nil
}

// Decode parses markdown with YAML frontmatter into a Task.
func Decode(data []byte) (*Task, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	var t Task
	if err := yaml.Unmarshal(fm, &t); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	if t.ID == "" {
		return nil, errors.New("frontmatter has no id")
	}
	t.Description = body
	t.dropBlankDates()
	return &t, nil
}

// dropBlankDates treats empty date fields as absent.
func (t *Task) dropBlankDates() {
	for _, in := range []**date.Instant{&t.DueDate, &t.TargetDeadline, &t.GoLiveDate} {
		if *in != nil && (*in).Blank() {
			*in = nil
		}
	}
}

// Encode serializes a task to markdown with YAML frontmatter.
func Encode(t *Task) ([]byte, error) {
	fm, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n")
	if t.Description != "" {
		buf.WriteString("\n")
		buf.WriteString(t.Description)
		if !strings.HasSuffix(t.Description, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

// Write serializes a task to path. The file is replaced atomically so a
// concurrent reader never observes a half-written task.
func Write(path string, t *Task) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing task file: %w", err)
	}
	return nil
}

// splitFrontmatter splits a markdown file into YAML frontmatter and body.
// The file must start with "---\n". Returns frontmatter bytes and body string.
func splitFrontmatter(data []byte) ([]byte, string, error) {
	content := string(data)

	if !strings.HasPrefix(content, "---\n") {
		return nil, "", errors.New("file does not start with YAML frontmatter (---)")
	}

	rest := content[4:] // skip opening ---\n
	idx := strings.Index(rest, "\n---\n")
	if idx < 0 {
		closingLen := len("---")
		if strings.HasSuffix(rest, "\n---") {
			idx = len(rest) - closingLen
		} else {
			return nil, "", errors.New("unclosed frontmatter (missing closing ---)")
		}
	}

	fm := rest[:idx]
	body := ""
	closingEnd := idx + len("\n---\n")
	if closingEnd < len(rest) {
		body = strings.TrimLeft(rest[closingEnd:], "\n")
	}

	return []byte(fm), body, nil
}
