// Package storetest provides a conformance suite for store.Backend
// implementations.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/graystore/internal/store"
)

// RunBackend exercises a Backend returned fresh by newBackend for each subtest.
func RunBackend(t *testing.T, newBackend func(t *testing.T) store.Backend) {
	t.Helper()

	t.Run("objects", func(t *testing.T) {
		ctx := context.Background()
		b := newBackend(t)

		_, err := b.GetObject(ctx, store.KindValue, "aa")
		require.ErrorIs(t, err, store.ErrNotFound)

		ok, err := b.HasObject(ctx, store.KindValue, "aa")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, b.PutObject(ctx, store.KindValue, "aa", []byte("first")))
		// existing objects are immutable
		require.NoError(t, b.PutObject(ctx, store.KindValue, "aa", []byte("second")))

		data, err := b.GetObject(ctx, store.KindValue, "aa")
		require.NoError(t, err)
		assert.Equal(t, []byte("first"), data)

		ok, err = b.HasObject(ctx, store.KindValue, "aa")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = b.HasObject(ctx, store.KindTree, "aa")
		require.NoError(t, err)
		assert.False(t, ok, "objects are scoped by kind")
	})

	t.Run("empty object", func(t *testing.T) {
		ctx := context.Background()
		b := newBackend(t)

		require.NoError(t, b.PutObject(ctx, store.KindValue, "bb", []byte{}))
		data, err := b.GetObject(ctx, store.KindValue, "bb")
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("refs", func(t *testing.T) {
		ctx := context.Background()
		b := newBackend(t)

		_, err := b.GetRef(ctx, "main")
		require.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, b.SetRef(ctx, "main", "aa"))
		require.NoError(t, b.SetRef(ctx, "main", "bb"))
		key, err := b.GetRef(ctx, "main")
		require.NoError(t, err)
		assert.Equal(t, store.Key("bb"), key)

		existed, err := b.DeleteRef(ctx, "main")
		require.NoError(t, err)
		assert.True(t, existed)

		existed, err = b.DeleteRef(ctx, "main")
		require.NoError(t, err)
		assert.False(t, existed)

		_, err = b.GetRef(ctx, "main")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list refs", func(t *testing.T) {
		ctx := context.Background()
		b := newBackend(t)

		for _, name := range []string{"x", "heads/b", "heads/a", "headsup", "a"} {
			require.NoError(t, b.SetRef(ctx, name, "cc"))
		}

		all, err := b.ListRefs(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "heads/a", "heads/b", "headsup", "x"}, all)

		heads, err := b.ListRefs(ctx, "heads")
		require.NoError(t, err)
		assert.Equal(t, []string{"heads/a", "heads/b", "headsup"}, heads)

		none, err := b.ListRefs(ctx, "zzz")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("store on backend", func(t *testing.T) {
		ctx := context.Background()
		s, err := store.New(newBackend(t), store.Config{})
		require.NoError(t, err)

		require.NoError(t, s.Update(ctx, store.Path{"docs", "readme"}, "hello"))
		v, err := s.Read(ctx, store.Path{"docs", "readme"})
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, store.Value("hello"), *v)

		require.NoError(t, s.Remove(ctx, store.Path{"docs", "readme"}))
		paths, err := s.List(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, paths)
	})
}
