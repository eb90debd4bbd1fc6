package mcp

import (
	"errors"
	"fmt"

	"github.com/pkazmin/babylog/internal/domain/activity"
	"github.com/pkazmin/babylog/internal/domain/child"
	"github.com/pkazmin/babylog/internal/repository"
)

// APIError represents a structured tool failure.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to structured tool error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, activity.ErrUnknownActivity):
		return &APIError{Code: "UNKNOWN_ACTIVITY", Message: err.Error(), RecoveryHint: "Use one of: sleep, feeding, walk, diaper, temperature, medication, mood"}
	case errors.Is(err, activity.ErrMissingChild):
		return &APIError{Code: "MISSING_CHILD", Message: err.Error(), RecoveryHint: "Pass child_id; call list_children to find it"}
	case errors.Is(err, activity.ErrMissingField):
		return &APIError{Code: "MISSING_FIELD", Message: err.Error(), RecoveryHint: "Ask the caregiver for the missing value"}
	case errors.Is(err, activity.ErrNoOpenSleep):
		return &APIError{Code: "NO_OPEN_SLEEP", Message: err.Error(), RecoveryHint: "Log a new sleep with log_activity instead"}
	case errors.Is(err, activity.ErrOpenSleepExists):
		return &APIError{Code: "OPEN_SLEEP_EXISTS", Message: err.Error(), RecoveryHint: "Call end_sleep before starting a new one"}
	case errors.Is(err, activity.ErrEndBeforeStart):
		return &APIError{Code: "END_BEFORE_START", Message: err.Error(), RecoveryHint: "Check the resolved end time"}
	case errors.Is(err, activity.ErrAlreadyClosed):
		return &APIError{Code: "ALREADY_CLOSED", Message: err.Error()}
	case errors.Is(err, child.ErrCaregiverNotFound):
		return &APIError{Code: "CAREGIVER_NOT_REGISTERED", Message: err.Error(), RecoveryHint: "Call register_caregiver first"}
	case errors.Is(err, child.ErrChildNotFound), errors.Is(err, repository.ErrForeignKeyViolation):
		return &APIError{Code: "CHILD_NOT_FOUND", Message: "child not found", RecoveryHint: "Call add_child or list_children"}
	case errors.Is(err, child.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, repository.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: "a conflicting record already exists"}
	default:
		return nil
	}
}

// errorMessage renders any handler error for the {error} result field.
func errorMessage(err error) string {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr.Error()
	}
	return err.Error()
}
