// Package apperr tags errors with the kind of failure they represent so the
// HTTP layer can turn them into a status code and a user-facing message.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Validation
	Auth
	NotFound
	Conflict
	InsufficientFunds
	InsufficientShares
	MethodNotAllowed
)

var kindNames = map[Kind]string{
	Internal:           "internal",
	Validation:         "validation",
	Auth:               "auth",
	NotFound:           "not_found",
	Conflict:           "conflict",
	InsufficientFunds:  "insufficient_funds",
	InsufficientShares: "insufficient_shares",
	MethodNotAllowed:   "method_not_allowed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Status is the HTTP status code used when rendering an error of this kind.
func (k Kind) Status() int {
	switch k {
	case Validation, InsufficientFunds, InsufficientShares:
		return http.StatusBadRequest
	case Auth:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case MethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Error is a tagged application error. Message is safe to show to users;
// Err carries the underlying cause for logs.
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

func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Invalid(message string) *Error {
	return E(Validation, message)
}

func Unauthorized(message string) *Error {
	return E(Auth, message)
}

func Missing(message string) *Error {
	return E(NotFound, message)
}

func Duplicate(message string) *Error {
	return E(Conflict, message)
}

func NoFunds(message string) *Error {
	return E(InsufficientFunds, message)
}

func NoShares(message string) *Error {
	return E(InsufficientShares, message)
}

func NotAllowed(message string) *Error {
	return E(MethodNotAllowed, message)
}

func InternalErr(err error) *Error {
	return Wrap(Internal, "internal server error", err)
}

// As returns the tagged error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports the kind of err. Untagged errors are Internal.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Internal
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	return KindOf(err).Status()
}

// Message returns the user-facing message for err. Internal failures never
// leak their cause.
func Message(err error) string {
	e, ok := As(err)
	if !ok || e.Kind == Internal {
		return "internal server error"
	}
	return e.Message
}
