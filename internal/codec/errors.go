package codec

import (
	"errors"
	"fmt"
)

// Sentinel causes carried inside a DecodeError.
var (
	// ErrNull is returned when a non-optional codec receives null or nothing.
	ErrNull = errors.New("codec: unexpected null")

	// ErrNotArray is returned by List when the value is not a JSON array.
	ErrNotArray = errors.New("codec: not an array")
)

// DecodeError reports a JSON value that does not match the shape a codec expects.
type DecodeError struct {
	Codec string // name of the codec that rejected the value
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Codec, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is, or wraps, a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
