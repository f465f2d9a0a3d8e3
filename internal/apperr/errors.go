// Package apperr holds the error classes shared by the fetch and score pipelines.
// CONFIG errors abort before processing, EXTERNAL and PARSE errors skip one record,
// STORAGE errors are always propagated to the caller.
package apperr

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type Kind string

const (
	KindConfig   Kind = "CONFIG"
	KindExternal Kind = "EXTERNAL"
	KindParse    Kind = "PARSE"
	KindStorage  Kind = "STORAGE"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) StackTrace() []byte {
	return e.Stack
}

func New(kind Kind, message string, err error) *Error {
	var stack []byte
	if err != nil {
		var stackErr *goerrors.Error
		if errors.As(err, &stackErr) {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func Config(message string, err error) *Error {
	return New(KindConfig, message, err)
}

func External(message string, err error) *Error {
	return New(KindExternal, message, err)
}

func Parse(message string, err error) *Error {
	return New(KindParse, message, err)
}

func Storage(message string, err error) *Error {
	return New(KindStorage, message, err)
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
