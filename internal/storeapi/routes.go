// Package storeapi defines the route tree that exposes a store over the
// dispatcher.
//
// The tree is written once against Capabilities, so any handle type S that
// can be projected onto the sub-store interfaces below is served by the same
// definition. Default wires it to *store.Store.
package storeapi

import (
	"context"

	"github.com/nerrad567/graystore/internal/codec"
	"github.com/nerrad567/graystore/internal/route"
	"github.com/nerrad567/graystore/internal/store"
)

// ContentStore is the capability set of an immutable entity sub-store.
type ContentStore[E any] interface {
	Read(ctx context.Context, key store.Key) (*E, error)
	Mem(ctx context.Context, key store.Key) (bool, error)
	List(ctx context.Context, key store.Key) ([]store.Key, error)
	Add(ctx context.Context, e E) (store.Key, error)
}

// TagStore is the capability set of the tag sub-store.
type TagStore interface {
	Read(ctx context.Context, tag store.Tag) (*store.Key, error)
	Mem(ctx context.Context, tag store.Tag) (bool, error)
	List(ctx context.Context, prefix store.Tag) ([]store.Tag, error)
	Update(ctx context.Context, tag store.Tag, key store.Key) error
	Remove(ctx context.Context, tag store.Tag) error
}

// PathStore is the capability set of the hierarchical path surface.
type PathStore interface {
	Read(ctx context.Context, path store.Path) (*store.Value, error)
	Mem(ctx context.Context, path store.Path) (bool, error)
	List(ctx context.Context, path store.Path) ([]store.Path, error)
	Update(ctx context.Context, path store.Path, v store.Value) error
	Remove(ctx context.Context, path store.Path) error
}

// Capabilities holds the projections from a top-level handle S onto its
// sub-stores, and the codec for each entity type.
type Capabilities[S any] struct {
	Values    func(S) ContentStore[store.Value]
	Trees     func(S) ContentStore[store.Tree]
	Revisions func(S) ContentStore[store.Revision]
	Tags      func(S) TagStore
	Paths     func(S) PathStore

	Key      codec.Codec[store.Key]
	Value    codec.Codec[store.Value]
	Tree     codec.Codec[store.Tree]
	Revision codec.Codec[store.Revision]
	Tag      codec.Codec[store.Tag]
	Path     codec.Codec[store.Path]
}

// Default returns the capabilities of *store.Store with the store codecs.
func Default() Capabilities[*store.Store] {
	return Capabilities[*store.Store]{
		Values:    func(s *store.Store) ContentStore[store.Value] { return s.Values() },
		Trees:     func(s *store.Store) ContentStore[store.Tree] { return s.Trees() },
		Revisions: func(s *store.Store) ContentStore[store.Revision] { return s.Revisions() },
		Tags:      func(s *store.Store) TagStore { return s.Tags() },
		Paths:     func(s *store.Store) PathStore { return s },

		Key:      store.KeyCodec(),
		Value:    store.ValueCodec(),
		Tree:     store.TreeCodec(),
		Revision: store.RevisionCodec(),
		Tag:      store.TagCodec(),
		Path:     store.PathCodec(),
	}
}

// Routes builds the route tree:
//
//	value/     read mem list add
//	tree/      read mem list add
//	revision/  read mem list add
//	tag/       read mem list update remove
//	read mem list update remove
func Routes[S any](c Capabilities[S]) *route.Node[S] {
	return route.Branch(
		route.Named("value", contents(c.Values, c.Key, c.Value)),
		route.Named("tree", contents(c.Trees, c.Key, c.Tree)),
		route.Named("revision", contents(c.Revisions, c.Key, c.Revision)),
		route.Named("tag", tags(c)),
		route.Named("read", route.Unary(c.Paths, call(PathStore.Read), c.Path, codec.Optional(c.Value))),
		route.Named("mem", route.Unary(c.Paths, call(PathStore.Mem), c.Path, codec.Bool())),
		route.Named("list", route.Unary(c.Paths, call(PathStore.List), c.Path, codec.List(c.Path))),
		route.Named("update", route.Binary(c.Paths, unit2(PathStore.Update), c.Path, c.Value, codec.UnitCodec())),
		route.Named("remove", route.Unary(c.Paths, unit1(PathStore.Remove), c.Path, codec.UnitCodec())),
	)
}

func contents[S, E any](project func(S) ContentStore[E], key codec.Codec[store.Key], entity codec.Codec[E]) *route.Node[S] {
	return route.Branch(
		route.Named("read", route.Unary(project, call(ContentStore[E].Read), key, codec.Optional(entity))),
		route.Named("mem", route.Unary(project, call(ContentStore[E].Mem), key, codec.Bool())),
		route.Named("list", route.Unary(project, call(ContentStore[E].List), key, codec.List(key))),
		route.Named("add", route.Unary(project, call(ContentStore[E].Add), entity, key)),
	)
}

func tags[S any](c Capabilities[S]) *route.Node[S] {
	return route.Branch(
		route.Named("read", route.Unary(c.Tags, call(TagStore.Read), c.Tag, codec.Optional(c.Key))),
		route.Named("mem", route.Unary(c.Tags, call(TagStore.Mem), c.Tag, codec.Bool())),
		route.Named("list", route.Unary(c.Tags, call(TagStore.List), c.Tag, codec.List(c.Tag))),
		route.Named("update", route.Binary(c.Tags, unit2(TagStore.Update), c.Tag, c.Key, codec.UnitCodec())),
		route.Named("remove", route.Unary(c.Tags, unit1(TagStore.Remove), c.Tag, codec.UnitCodec())),
	)
}

// call adapts a method expression to the binding's argument order.
func call[H, A, B any](m func(H, context.Context, A) (B, error)) func(context.Context, H, A) (B, error) {
	return func(ctx context.Context, h H, a A) (B, error) {
		return m(h, ctx, a)
	}
}

// unit1 adapts an error-only method expression to return codec.Unit.
func unit1[H, A any](op func(H, context.Context, A) error) func(context.Context, H, A) (codec.Unit, error) {
	return func(ctx context.Context, h H, a A) (codec.Unit, error) {
		return codec.Unit{}, op(h, ctx, a)
	}
}

// unit2 is unit1 for two-argument operations.
func unit2[H, A, B any](op func(H, context.Context, A, B) error) func(context.Context, H, A, B) (codec.Unit, error) {
	return func(ctx context.Context, h H, a A, b B) (codec.Unit, error) {
		return codec.Unit{}, op(h, ctx, a, b)
	}
}
