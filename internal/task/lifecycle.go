package task

import "time"

// Complete marks t completed at now. It reports false if t was already completed.
func Complete(t *Task, now time.Time) bool {
	if t.Completed {
		return false
	}
	t.Completed = true
	t.CompletedDate = &now
	t.Updated = now
	return true
}

// Reopen clears completion. It reports false if t was not completed.
func Reopen(t *Task, now time.Time) bool {
	if !t.Completed {
		return false
	}
	t.Completed = false
	t.CompletedDate = nil
	t.Updated = now
	return true
}

// Archive hides t from the active and completed views, keeping its
// completion state so unarchiving restores it.
func Archive(t *Task, now time.Time) bool {
	if t.Archived {
		return false
	}
	t.Archived = true
	t.Updated = now
	return true
}

// Unarchive reverses Archive.
func Unarchive(t *Task, now time.Time) bool {
	if !t.Archived {
		return false
	}
	t.Archived = false
	t.Updated = now
	return true
}
