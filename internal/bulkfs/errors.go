package bulkfs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the bulk core. Input, Resource, Editor, Structural
// and Environment errors abort before any mutation; per-item errors are
// collected in ItemErrors instead.
var (
	ErrEmptyArgs     = errors.New("no files to operate on")
	ErrNothingToDo   = errors.New("nothing to do")
	ErrLineMismatch  = errors.New("line mismatch in temporary file")
	ErrEditorFailed  = errors.New("editor exited with a non-zero status")
	ErrNotADirectory = errors.New("not a directory")
	ErrConfirmNo     = errors.New("operation cancelled")
)

// ItemError is a single per-item failure collected during Apply.
type ItemError struct {
	Index int    // position of the offending entry in the EntrySequence
	Path  string // the path or rename target involved
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d (%s): %v", e.Index, e.Path, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// ItemErrors aggregates every per-item failure from one Apply pass.
// Encountering one never stops the loop; the first one becomes the
// aggregate exit status, but all are retained for diagnostics.
type ItemErrors struct {
	Errors []ItemError
}

func (e *ItemErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no item errors"
	}
	return fmt.Sprintf("%d item(s) failed, first: %v", len(e.Errors), e.Errors[0].Err)
}

func (e *ItemErrors) Add(index int, path string, err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, ItemError{Index: index, Path: path, Err: err})
}

func (e *ItemErrors) HasErrors() bool { return len(e.Errors) > 0 }

// First returns the first recorded error, or nil if there are none.
func (e *ItemErrors) First() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}
