package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nerrad567/graystore/internal/codec"
	"github.com/nerrad567/graystore/internal/route"
)

// Result is the outcome of a successful dispatch.
type Result struct {
	// Action is the slash-joined path of the node that handled the request
	// (the leaf, or the branch that was described).
	Action string

	// Described is true when the path ended on a branch.
	Described bool

	// Value is the encoded operation result or describe listing.
	Value json.RawMessage
}

// Invoker dispatches requests against a store handle fixed at bind time.
// It lets the HTTP layer stay independent of the store handle type.
type Invoker interface {
	Invoke(ctx context.Context, path []string, body []json.RawMessage) (Result, error)
	Routes() []string
}

// Dispatcher walks a route tree for handle type S.
type Dispatcher[S any] struct {
	root    *route.Node[S]
	listing codec.Codec[[]string]
	path    codec.Codec[[]string]
}

// New returns a dispatcher over root. The tree must not be modified afterwards.
func New[S any](root *route.Node[S]) *Dispatcher[S] {
	return &Dispatcher[S]{
		root:    root,
		listing: codec.List(codec.String()),
		path:    codec.Path(),
	}
}

// Resolve walks path from the root. It stops at the first leaf, returning
// the remaining segments as leftover, or at the node the path ends on.
func (d *Dispatcher[S]) Resolve(path []string) (node *route.Node[S], consumed, leftover []string, err error) {
	node = d.root
	rest := path
	for !node.IsLeaf() && len(rest) > 0 {
		node, err = node.Child(rest[0])
		if err != nil {
			return nil, path[:len(path)-len(rest)], rest, err
		}
		rest = rest[1:]
	}
	return node, path[:len(path)-len(rest)], rest, nil
}

// Dispatch resolves path and either describes the branch it ends on or
// invokes the leaf it reaches with the assembled parameters.
func (d *Dispatcher[S]) Dispatch(ctx context.Context, s S, path []string, body []json.RawMessage) (Result, error) {
	node, consumed, leftover, err := d.Resolve(path)
	if err != nil {
		return Result{Action: strings.Join(consumed, "/")}, err
	}
	res := Result{Action: strings.Join(consumed, "/")}

	if !node.IsLeaf() {
		res.Described = true
		res.Value = d.listing.Encode(node.Describe())
		return res, nil
	}

	params := body
	if len(leftover) > 0 {
		params = make([]json.RawMessage, 0, len(body)+1)
		params = append(params, d.path.Encode(leftover))
		params = append(params, body...)
	}

	res.Value, err = node.Invoke(ctx, s, params)
	return res, err
}

// Routes returns the full describe listing of the tree.
func (d *Dispatcher[S]) Routes() []string {
	return d.root.Describe()
}

// Bind fixes the store handle, yielding an Invoker.
func Bind[S any](d *Dispatcher[S], s S) Invoker {
	return &bound[S]{d: d, s: s}
}

type bound[S any] struct {
	d *Dispatcher[S]
	s S
}

func (b *bound[S]) Invoke(ctx context.Context, path []string, body []json.RawMessage) (Result, error) {
	return b.d.Dispatch(ctx, b.s, path, body)
}

func (b *bound[S]) Routes() []string {
	return b.d.Routes()
}

// Split turns a URL path into routing segments, dropping empty ones.
func Split(urlPath string) []string {
	parts := strings.Split(urlPath, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// ParseBody reads an optional request body. An empty body yields no
// parameters; anything else must be a JSON array, whose elements become the
// positional parameters.
func ParseBody(r io.Reader) ([]json.RawMessage, error) {
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] != '[' {
		return nil, &BodyFormatError{Err: errors.New("not an array")}
	}
	var params []json.RawMessage
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, &BodyFormatError{Err: err}
	}
	return params, nil
}
