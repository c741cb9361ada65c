package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures for propagation decisions
type ErrorKind string

const (
	// ErrorKindAuth means the cookie was rejected; fatal
	ErrorKindAuth ErrorKind = "auth"

	// ErrorKindNetwork means a transient transport or HTTP failure
	ErrorKindNetwork ErrorKind = "network"

	// ErrorKindParse means an API response could not be decoded
	ErrorKindParse ErrorKind = "parse"

	// ErrorKindValidation means bad user input; fatal before any task runs
	ErrorKindValidation ErrorKind = "validation"

	// ErrorKindDisk means the output filesystem is full or unwritable; fatal
	ErrorKindDisk ErrorKind = "disk"

	// ErrorKindRender means quiz data could not be rendered
	ErrorKindRender ErrorKind = "render"
)

// Error is a classified error. Op names the failed operation.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewError wraps err with a kind and operation name
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a classified error from a format string
func Errorf(kind ErrorKind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first classified error in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err is classified as kind
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsFatal reports whether err must abort the whole run
func IsFatal(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	return k == ErrorKindAuth || k == ErrorKindDisk || k == ErrorKindValidation
}

// IsRetryable reports whether the operation may succeed if attempted again
func IsRetryable(err error) bool {
	return IsKind(err, ErrorKindNetwork)
}
