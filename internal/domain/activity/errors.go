package activity

import "errors"

var (
	// ErrUnknownActivity indicates the type hint matched no known kind.
	ErrUnknownActivity = errors.New("unknown activity type")
	// ErrMissingChild indicates the entry carries no child id.
	ErrMissingChild = errors.New("child_id is required")
	// ErrMissingField indicates a kind-specific required field is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrNotFound indicates the activity doesn't exist.
	ErrNotFound = errors.New("activity not found")
	// ErrNoOpenSleep indicates the child has no sleep in progress.
	ErrNoOpenSleep = errors.New("no open sleep for child")
	// ErrOpenSleepExists indicates the child already has a sleep in progress.
	ErrOpenSleepExists = errors.New("child already has an open sleep")
	// ErrAlreadyClosed indicates the interval already has an end.
	ErrAlreadyClosed = errors.New("interval already closed")
	// ErrEndBeforeStart indicates the end precedes the start.
	ErrEndBeforeStart = errors.New("end time before start time")
)
