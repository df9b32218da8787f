package diffalign

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is matched by every InputError.
	ErrInvalidRange = errors.New("invalid row range")
	// ErrNotPending reports an attempt to apply a hunk that was already
	// accepted or ignored.
	ErrNotPending = errors.New("hunk is not pending")
	// ErrStale reports a hunk computed against a different base length.
	ErrStale = errors.New("hunk is stale")
	// ErrInputTooLarge reports an input over the configured line limit.
	ErrInputTooLarge = errors.New("input exceeds line limit")
	// ErrUnresolved is returned by Resolved while pending hunks remain.
	ErrUnresolved = errors.New("unresolved hunks remain")
	// ErrBusy rejects a mutation issued while another one is running.
	ErrBusy = errors.New("recomputation in progress")
	// ErrNoSuchHunk reports a hunk index outside the current pass.
	ErrNoSuchHunk = errors.New("no such hunk")
	// ErrNoSuchRegion reports a region index outside the current pass.
	ErrNoSuchRegion = errors.New("no such region")
)

// InputError reports a malformed row range passed across the API boundary.
type InputError struct {
	Op     string
	Range  Range
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: invalid range [%d,%d): %s", e.Op, e.Range.Start, e.Range.End, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidRange) hold for any InputError.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidRange
}

// ApplyError reports a hunk that could not be applied. No edit was made.
type ApplyError struct {
	Hunk Hunk
	Err  error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply %s hunk at base [%d,%d): %v", e.Hunk.Kind, e.Hunk.BaseRows.Start, e.Hunk.BaseRows.End, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}
