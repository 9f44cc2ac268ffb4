package apperr

import (
	"errors"
	"strings"
)

// Sentinels returned (optionally wrapped) by stores and usecases.
// Callers match them with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("record changed, please retry")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("forbidden")
	ErrUnavailable       = errors.New("storage unavailable")

	// ErrDuplicate is a store-level unique violation. Usecases resolve it
	// (re-read, retry) and never hand it to callers.
	ErrDuplicate = errors.New("duplicate record")
)

// ValidationError reports a user-correctable problem with one input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + " " + e.Message }

// Invalid is shorthand for building a *ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ValidationErrors groups several field problems found in one pass.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field problem.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, &ValidationError{Field: field, Message: message})
}

// Err returns nil when nothing was collected, the single error when there is
// exactly one, and the whole set otherwise.
func (v ValidationErrors) Err() error {
	switch len(v) {
	case 0:
		return nil
	case 1:
		return v[0]
	default:
		return v
	}
}

// Fields flattens a validation failure into its field errors. It returns nil
// when err is not a validation failure.
func Fields(err error) []*ValidationError {
	var many ValidationErrors
	if errors.As(err, &many) {
		return many
	}
	var one *ValidationError
	if errors.As(err, &one) {
		return []*ValidationError{one}
	}
	return nil
}

// IsValidation reports whether err carries field validation problems.
func IsValidation(err error) bool { return Fields(err) != nil }
