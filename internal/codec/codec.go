package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// null is the JSON encoding of "no value".
var null = json.RawMessage("null")

// Codec is a paired decoder/encoder for values of type T.
//
// Decode rejects malformed JSON with a *DecodeError. Encode is total over T.
// The zero Codec is not usable; build codecs with New or the constructors
// in this package.
type Codec[T any] struct {
	name   string
	decode func(json.RawMessage) (T, error)
	encode func(T) json.RawMessage
}

// New builds a codec from a decode and an encode function.
//
// Errors returned by decode are wrapped in a *DecodeError carrying name,
// unless they already are one.
func New[T any](name string, decode func(json.RawMessage) (T, error), encode func(T) json.RawMessage) Codec[T] {
	return Codec[T]{name: name, decode: decode, encode: encode}
}

// Name returns the codec's name, used in error messages.
func (c Codec[T]) Name() string {
	return c.name
}

// Decode parses raw into a T.
func (c Codec[T]) Decode(raw json.RawMessage) (T, error) {
	v, err := c.decode(raw)
	if err != nil {
		var zero T
		if IsDecodeError(err) {
			return zero, err
		}
		return zero, &DecodeError{Codec: c.name, Err: err}
	}
	return v, nil
}

// Encode renders v as JSON.
func (c Codec[T]) Encode(v T) json.RawMessage {
	return c.encode(v)
}

// isNull reports whether raw is absent or the JSON literal null.
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, null)
}

// Bool returns the codec for JSON booleans.
func Bool() Codec[bool] {
	return New("bool",
		func(raw json.RawMessage) (bool, error) {
			if isNull(raw) {
				return false, ErrNull
			}
			var b bool
			if err := json.Unmarshal(raw, &b); err != nil {
				return false, err
			}
			return b, nil
		},
		func(b bool) json.RawMessage {
			if b {
				return json.RawMessage("true")
			}
			return json.RawMessage("false")
		},
	)
}

// Unit is the type of operations that return nothing.
type Unit struct{}

// UnitCodec accepts any JSON value (or none) and always encodes as null.
func UnitCodec() Codec[Unit] {
	return New("unit",
		func(json.RawMessage) (Unit, error) { return Unit{}, nil },
		func(Unit) json.RawMessage { return null },
	)
}

// String returns the codec for JSON strings.
func String() Codec[string] {
	return New("string",
		func(raw json.RawMessage) (string, error) {
			if isNull(raw) {
				return "", ErrNull
			}
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return "", err
			}
			return s, nil
		},
		func(s string) json.RawMessage {
			return mustMarshal(s)
		},
	)
}

// Path returns the list-of-strings codec used for key and path parameters.
func Path() Codec[[]string] {
	return listNamed("path", String())
}

// Optional lifts c so that null or an absent value decodes to nil.
func Optional[T any](c Codec[T]) Codec[*T] {
	return New("optional("+c.name+")",
		func(raw json.RawMessage) (*T, error) {
			if isNull(raw) {
				return nil, nil
			}
			v, err := c.Decode(raw)
			if err != nil {
				return nil, err
			}
			return &v, nil
		},
		func(v *T) json.RawMessage {
			if v == nil {
				return null
			}
			return c.Encode(*v)
		},
	)
}

// List lifts c to a JSON array of T, preserving element order.
//
// A nil slice and an empty slice are the same value: both encode as [] and
// [] decodes to an empty, non-nil slice.
func List[T any](c Codec[T]) Codec[[]T] {
	return listNamed("list("+c.name+")", c)
}

func listNamed[T any](name string, c Codec[T]) Codec[[]T] {
	return New(name,
		func(raw json.RawMessage) ([]T, error) {
			if isNull(raw) {
				return nil, ErrNull
			}
			trimmed := bytes.TrimSpace(raw)
			if trimmed[0] != '[' {
				return nil, ErrNotArray
			}
			var elems []json.RawMessage
			if err := json.Unmarshal(trimmed, &elems); err != nil {
				return nil, err
			}
			out := make([]T, 0, len(elems))
			for i, elem := range elems {
				v, err := c.Decode(elem)
				if err != nil {
					return nil, &DecodeError{Codec: name, Err: fmt.Errorf("element %d: %w", i, err)}
				}
				out = append(out, v)
			}
			return out, nil
		},
		func(vs []T) json.RawMessage {
			var buf bytes.Buffer
			buf.WriteByte('[')
			for i, v := range vs {
				if i > 0 {
					buf.WriteByte(',')
				}
				buf.Write(c.Encode(v))
			}
			buf.WriteByte(']')
			return buf.Bytes()
		},
	)
}

// JSON returns a codec that maps T through encoding/json.
//
// Unknown object fields are rejected, and validate (if non-nil) runs after a
// successful unmarshal. T must be a type whose marshalling cannot fail
// (no channels, funcs, or cyclic values).
func JSON[T any](name string, validate func(T) error) Codec[T] {
	return New(name,
		func(raw json.RawMessage) (T, error) {
			var v T
			if isNull(raw) {
				return v, ErrNull
			}
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&v); err != nil {
				return v, err
			}
			if dec.More() {
				return v, fmt.Errorf("trailing data after %s", name)
			}
			if validate != nil {
				if err := validate(v); err != nil {
					return v, err
				}
			}
			return v, nil
		},
		func(v T) json.RawMessage {
			return mustMarshal(v)
		},
	)
}

// mustMarshal marshals values whose encoding cannot fail.
func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("codec: marshalling %T: %v", v, err))
	}
	return data
}
