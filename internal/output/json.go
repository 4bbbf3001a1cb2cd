package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/board"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/view"
)

// JSON writes data as indented JSON to the given writer.
func JSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the JSON envelope for structured error output.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes a structured error to the given writer as JSON.
func JSONError(w io.Writer, code, msg string, details map[string]any) {
	resp := ErrorResponse{Error: msg, Code: code, Details: details}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp) // best-effort; if writer fails, nothing we can do
}

// BatchResult represents the outcome of a single operation within a batch.
type BatchResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// ListResponse is the JSON shape of a list or agenda: the engine state,
// the badge count and either flat tasks or groups.
type ListResponse struct {
	State       view.State    `json:"state"`
	FilterCount int           `json:"filter_count"`
	Tasks       []*task.Task  `json:"tasks,omitempty"`
	Groups      []board.Group `json:"groups,omitempty"`
	Skipped     []string      `json:"skipped,omitempty"`
	DoneToday   int           `json:"done_today,omitempty"`
}
