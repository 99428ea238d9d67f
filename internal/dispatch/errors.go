package dispatch

import "fmt"

// BodyFormatError is returned when a request body is present but is not a
// JSON array.
type BodyFormatError struct {
	Err error
}

func (e *BodyFormatError) Error() string {
	return fmt.Sprintf("request body must be a JSON array: %v", e.Err)
}

func (e *BodyFormatError) Unwrap() error {
	return e.Err
}
