package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Contents is the sub-store for one immutable entity type E.
type Contents[E any] struct {
	backend Backend
	kind    Kind
	domain  string
	// canonical validates and normalises an entity, returning its hashed form.
	canonical func(E) (E, []byte, error)
	parse     func([]byte) (E, error)
	// refs lists the keys an entity directly references.
	refs func(E) []Key
}

// Read returns the entity stored under key, or nil if there is none.
func (c *Contents[E]) Read(ctx context.Context, key Key) (*E, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	data, err := c.backend.GetObject(ctx, c.kind, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s %s: %w", c.kind, key, err)
	}
	e, err := c.parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrCorrupt, c.kind, key, err)
	}
	return &e, nil
}

// Mem reports whether an entity is stored under key.
func (c *Contents[E]) Mem(ctx context.Context, key Key) (bool, error) {
	if err := key.Validate(); err != nil {
		return false, err
	}
	ok, err := c.backend.HasObject(ctx, c.kind, key)
	if err != nil {
		return false, fmt.Errorf("checking %s %s: %w", c.kind, key, err)
	}
	return ok, nil
}

// List returns the keys the entity under key directly references, in order.
// An absent entity references nothing.
func (c *Contents[E]) List(ctx context.Context, key Key) ([]Key, error) {
	e, err := c.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return []Key{}, nil
	}
	return c.refs(*e), nil
}

// Add stores e and returns its key. Adding an equal entity again is a no-op.
func (c *Contents[E]) Add(ctx context.Context, e E) (Key, error) {
	_, data, err := c.canonical(e)
	if err != nil {
		return "", err
	}
	key := hashWithDomain(c.domain, data)
	if err := c.backend.PutObject(ctx, c.kind, key, data); err != nil {
		return "", fmt.Errorf("writing %s %s: %w", c.kind, key, err)
	}
	return key, nil
}

func newValues(b Backend) *Contents[Value] {
	return &Contents[Value]{
		backend:   b,
		kind:      KindValue,
		domain:    DomainValue,
		canonical: canonicalValue,
		parse:     func(data []byte) (Value, error) { return Value(data), nil },
		refs:      func(Value) []Key { return []Key{} },
	}
}

func newTrees(b Backend) *Contents[Tree] {
	return &Contents[Tree]{
		backend:   b,
		kind:      KindTree,
		domain:    DomainTree,
		canonical: canonicalTree,
		parse: func(data []byte) (Tree, error) {
			var t Tree
			if err := json.Unmarshal(data, &t); err != nil {
				return nil, err
			}
			if t == nil {
				t = Tree{}
			}
			return t, nil
		},
		refs: func(t Tree) []Key {
			keys := make([]Key, len(t))
			for i, e := range t {
				keys[i] = e.Key
			}
			return keys
		},
	}
}

func newRevisions(b Backend) *Contents[Revision] {
	return &Contents[Revision]{
		backend:   b,
		kind:      KindRevision,
		domain:    DomainRevision,
		canonical: canonicalRevision,
		parse: func(data []byte) (Revision, error) {
			var r Revision
			if err := json.Unmarshal(data, &r); err != nil {
				return Revision{}, err
			}
			if r.Parents == nil {
				r.Parents = []Key{}
			}
			return r, nil
		},
		refs: func(r Revision) []Key {
			keys := make([]Key, 0, len(r.Parents)+1)
			keys = append(keys, r.Tree)
			return append(keys, r.Parents...)
		},
	}
}
