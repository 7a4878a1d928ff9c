package core

import (
	"errors"
)

var (
	ErrAssertion = errors.New("assertion failed")
)

// FatalError is the panic value raised by Logger.Fatal.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return "fatal: " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
