package model

import "errors"

// Kind classifies a failure so callers can branch on it programmatically
// instead of matching message strings.
type Kind int

const (
	// KindIdentity marks unauthenticated access or identity-lookup failure.
	// It is a normal control-flow branch (redirect to sign-in), not fatal.
	KindIdentity Kind = iota + 1
	// KindTransport marks a network or stream failure while talking to an
	// external collaborator.
	KindTransport
	// KindValidation marks input the operation refuses to attempt.
	KindValidation
	// KindRemote marks an error payload returned by an external service.
	KindRemote
)

// Error is a tagged error carrying the failure class alongside a safe,
// user-visible message. The wrapped cause is kept for logging only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a tagged error wrapping an optional cause.
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf walks the error chain and returns the first tag found, or zero if
// the error is untagged.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
