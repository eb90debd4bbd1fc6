package child

import "errors"

var (
	// ErrCaregiverNotFound indicates no caregiver is registered for the chat.
	ErrCaregiverNotFound = errors.New("caregiver not registered")
	// ErrChildNotFound indicates the child doesn't exist.
	ErrChildNotFound = errors.New("child not found")
	// ErrInvalidInput indicates invalid input for child operations.
	ErrInvalidInput = errors.New("invalid child input")
)
