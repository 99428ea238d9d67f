package route

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/graystore/internal/codec"
)

// Unary binds a one-argument store operation as a leaf.
//
// project selects the sub-store the operation runs against (for example the
// value store of a top-level handle). The single parameter is decoded with
// in, and the result encoded with out. Errors returned by op are passed
// through untouched.
func Unary[S, H, A, B any](
	project func(S) H,
	op func(context.Context, H, A) (B, error),
	in codec.Codec[A],
	out codec.Codec[B],
) *Node[S] {
	return Leaf(1, func(ctx context.Context, s S, params []json.RawMessage) (json.RawMessage, error) {
		a, err := decodeParam(in, params, 0)
		if err != nil {
			return nil, err
		}
		b, err := op(ctx, project(s), a)
		if err != nil {
			return nil, err
		}
		return out.Encode(b), nil
	})
}

// Binary binds a two-argument store operation as a leaf.
func Binary[S, H, A, B, C any](
	project func(S) H,
	op func(context.Context, H, A, B) (C, error),
	first codec.Codec[A],
	second codec.Codec[B],
	out codec.Codec[C],
) *Node[S] {
	return Leaf(2, func(ctx context.Context, s S, params []json.RawMessage) (json.RawMessage, error) {
		a, err := decodeParam(first, params, 0)
		if err != nil {
			return nil, err
		}
		b, err := decodeParam(second, params, 1)
		if err != nil {
			return nil, err
		}
		c, err := op(ctx, project(s), a, b)
		if err != nil {
			return nil, err
		}
		return out.Encode(c), nil
	})
}

// Identity is the projection for operations on the top-level handle itself.
func Identity[S any](s S) S {
	return s
}

func decodeParam[T any](c codec.Codec[T], params []json.RawMessage, i int) (T, error) {
	v, err := c.Decode(params[i])
	if err != nil {
		return v, fmt.Errorf("parameter %d: %w", i, err)
	}
	return v, nil
}
