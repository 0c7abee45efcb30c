package session

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures so callers can react without parsing messages.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is malformed or out-of-range input; retry with corrected input.
	KindValidation
	// KindState is an operation the session's lifecycle state does not allow.
	KindState
	// KindNotFound is a session or system id that does not exist.
	KindNotFound
	// KindDuration is a computed session length that is not positive.
	KindDuration
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindState:
		return "state error"
	case KindNotFound:
		return "not found"
	case KindDuration:
		return "duration error"
	default:
		return "unknown error"
	}
}

// Error is a classified engine failure.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrState      = &Error{Kind: KindState}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrDuration   = &Error{Kind: KindDuration}
)

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf extracts the Kind from err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func validationErr(op, format string, args ...any) *Error {
	return newError(KindValidation, op, format, args...)
}

func stateErr(op, format string, args ...any) *Error {
	return newError(KindState, op, format, args...)
}

func notFoundErr(op string, id uint) *Error {
	return newError(KindNotFound, op, "session #%d not found", id)
}
