package route

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by ArgumentCountError.Is.
var (
	ErrTooFewArguments  = errors.New("not enough arguments")
	ErrTooManyArguments = errors.New("too many arguments")
)

// UnknownActionError is returned when a path segment names no child of the
// current node.
type UnknownActionError struct {
	Name string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", e.Name)
}

// ArgumentCountError is returned when a leaf is invoked with the wrong number
// of parameters.
type ArgumentCountError struct {
	Want int
	Got  int
}

func (e *ArgumentCountError) Error() string {
	if e.TooFew() {
		return fmt.Sprintf("%v: want %d, got %d", ErrTooFewArguments, e.Want, e.Got)
	}
	return fmt.Sprintf("%v: want %d, got %d", ErrTooManyArguments, e.Want, e.Got)
}

// TooFew reports whether fewer parameters than required were supplied.
func (e *ArgumentCountError) TooFew() bool {
	return e.Got < e.Want
}

// TooMany reports whether more parameters than accepted were supplied.
func (e *ArgumentCountError) TooMany() bool {
	return e.Got > e.Want
}

// Is lets errors.Is match ErrTooFewArguments and ErrTooManyArguments.
func (e *ArgumentCountError) Is(target error) bool {
	switch target {
	case ErrTooFewArguments:
		return e.TooFew()
	case ErrTooManyArguments:
		return e.TooMany()
	}
	return false
}
