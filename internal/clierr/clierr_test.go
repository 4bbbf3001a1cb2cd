package clierr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("toggling: %w", Newf(InvalidPriority, "invalid priority %q", "urgent"))

	assert.True(t, HasCode(err, InvalidPriority))
	assert.False(t, HasCode(err, InvalidDueFilter))
	assert.False(t, HasCode(fmt.Errorf("plain"), InvalidPriority))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, New(InternalError, "boom").ExitCode())
	assert.Equal(t, 1, New(TaskNotFound, "missing").ExitCode())
}

func TestWithDetails(t *testing.T) {
	e := New(UnknownTag, "unknown tag").WithDetails(map[string]any{"tag": "x"})
	assert.Equal(t, "x", e.Details["tag"])
	assert.Equal(t, "unknown tag", e.Error())
}
