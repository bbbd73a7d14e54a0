package domain

import "errors"

// Kind classifies an Error. The set is closed; the HTTP layer maps each kind
// to exactly one status code.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindMergeFailed  Kind = "merge_failed"
	KindInternal     Kind = "internal"
)

// Error is the single error-result type surfaced to API callers.
// Message is safe to show to clients; Err carries the internal cause.
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

// Is reports whether target is a domain error with the same kind and message,
// so wrapped copies of a sentinel still match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

var (
	// Merge input validation.
	ErrNoFiles      = &Error{Kind: KindInvalidInput, Message: "No PDF files uploaded"}
	ErrTooFewFiles  = &Error{Kind: KindInvalidInput, Message: "At least two PDF files are required"}
	ErrInvalidType  = &Error{Kind: KindInvalidInput, Message: "Invalid file type. Only PDF files are allowed"}
	ErrTooManyFiles = &Error{Kind: KindInvalidInput, Message: "Too many files uploaded"}
	ErrFileTooLarge = &Error{Kind: KindInvalidInput, Message: "Uploaded file exceeds allowed size"}

	// Authentication.
	ErrMissingToken       = &Error{Kind: KindUnauthorized, Message: "No token provided"}
	ErrInvalidToken       = &Error{Kind: KindUnauthorized, Message: "Invalid token"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid credentials"}
	ErrUserExists         = &Error{Kind: KindConflict, Message: "User already exists"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrInvalidGoogleToken = &Error{Kind: KindUnauthorized, Message: "Invalid Google token"}
)

// InvalidInput builds a client error with a specific reason.
func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// MergeFailed collapses any merge-stage failure into one opaque error.
func MergeFailed(cause error) *Error {
	return &Error{Kind: KindMergeFailed, Message: "Failed to merge PDF files", Err: cause}
}

// Internal wraps an unexpected failure with a client-safe message.
func Internal(msg string, cause error) *Error {
	if msg == "" {
		msg = "Internal Server Error"
	}
	return &Error{Kind: KindInternal, Message: msg, Err: cause}
}

// KindOf returns the kind of the first domain error in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
