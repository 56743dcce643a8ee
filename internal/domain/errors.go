package domain

import "errors"

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrMemberNotFound = errors.New("member not found")
	// ErrCaptainRemoval is returned when removing a group's captain.
	ErrCaptainRemoval = errors.New("the captain cannot be removed")
)

// FormError is a message meant to be shown to the user next to the form that
// produced it. Err, when set, is the underlying cause.
type FormError struct {
	Message string
	Err     error
}

func (e *FormError) Error() string { return e.Message }

func (e *FormError) Unwrap() error { return e.Err }

// NewFormError wraps a collaborator failure, falling back to fallback when the
// cause has no text of its own.
func NewFormError(err error, fallback string) *FormError {
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &FormError{Message: msg, Err: err}
}
