package storeapi

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/graystore/internal/codec"
	"github.com/nerrad567/graystore/internal/dispatch"
	"github.com/nerrad567/graystore/internal/route"
	"github.com/nerrad567/graystore/internal/store"
)

func newInvoker(t *testing.T) (dispatch.Invoker, *store.Store) {
	t.Helper()
	s, err := store.New(store.NewMemory(), store.Config{})
	require.NoError(t, err)
	return dispatch.Bind(dispatch.New(Routes(Default())), s), s
}

func body(t *testing.T, raw string) []json.RawMessage {
	t.Helper()
	params, err := dispatch.ParseBody(strings.NewReader(raw))
	require.NoError(t, err)
	return params
}

func TestRoutes_Golden(t *testing.T) {
	inv, _ := newInvoker(t)
	listing := strings.Join(inv.Routes(), "\n") + "\n"

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "routes", []byte(listing))
}

func TestRoutes_EmptyPathListsEveryLeaf(t *testing.T) {
	inv, _ := newInvoker(t)
	res, err := inv.Invoke(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.True(t, res.Described)

	var listed []string
	require.NoError(t, json.Unmarshal(res.Value, &listed))
	assert.Equal(t, inv.Routes(), listed)
	assert.Len(t, listed, 22)
}

func TestRoutes_TagUpdateFromBody(t *testing.T) {
	ctx := context.Background()
	inv, s := newInvoker(t)

	res, err := inv.Invoke(ctx, []string{"tag", "update"}, body(t, `["mytag", "abc123"]`))
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(res.Value))

	k, err := s.Tags().Read(ctx, "mytag")
	require.NoError(t, err)
	require.NotNil(t, k)
	assert.Equal(t, store.Key("abc123"), *k)

	res, err = inv.Invoke(ctx, []string{"tag", "read", "mytag"}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `"abc123"`, string(res.Value))
}

func TestRoutes_LeftoverPathIsKey(t *testing.T) {
	ctx := context.Background()
	inv, _ := newInvoker(t)

	added, err := inv.Invoke(ctx, []string{"value", "add"}, body(t, `["hello"]`))
	require.NoError(t, err)
	var key string
	require.NoError(t, json.Unmarshal(added.Value, &key))
	assert.Equal(t, string(store.ValueKey("hello")), key)

	viaPath, err := inv.Invoke(ctx, []string{"value", "read", key[:2], key[2:]}, nil)
	require.NoError(t, err)
	viaBody, err := inv.Invoke(ctx, []string{"value", "read"}, body(t, `[["`+key[:2]+`","`+key[2:]+`"]]`))
	require.NoError(t, err)

	assert.JSONEq(t, `"hello"`, string(viaPath.Value))
	assert.JSONEq(t, string(viaPath.Value), string(viaBody.Value))

	// unknown but well-formed key
	res, err := inv.Invoke(ctx, []string{"value", "read", "a", "b"}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(res.Value))
}

func TestRoutes_UnknownSegment(t *testing.T) {
	inv, _ := newInvoker(t)
	for _, path := range [][]string{{"value", "bogus"}, {"tree", "bogus"}} {
		_, err := inv.Invoke(context.Background(), path, nil)
		var ua *route.UnknownActionError
		require.ErrorAs(t, err, &ua)
		assert.Equal(t, "bogus", ua.Name)
	}
}

func TestRoutes_PathSurface(t *testing.T) {
	ctx := context.Background()
	inv, _ := newInvoker(t)

	_, err := inv.Invoke(ctx, []string{"update", "docs", "readme"}, body(t, `["hi"]`))
	require.NoError(t, err)

	res, err := inv.Invoke(ctx, []string{"read", "docs", "readme"}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `"hi"`, string(res.Value))

	res, err = inv.Invoke(ctx, []string{"mem", "docs"}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `false`, string(res.Value))

	res, err = inv.Invoke(ctx, []string{"list"}, body(t, `[[]]`))
	require.NoError(t, err)
	assert.JSONEq(t, `[["docs"]]`, string(res.Value))

	res, err = inv.Invoke(ctx, []string{"list", "docs"}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[["docs","readme"]]`, string(res.Value))

	// the branch tag now points at a revision with a tree
	res, err = inv.Invoke(ctx, []string{"tag", "read", "main"}, nil)
	require.NoError(t, err)
	var head string
	require.NoError(t, json.Unmarshal(res.Value, &head))

	res, err = inv.Invoke(ctx, []string{"revision", "list", head}, nil)
	require.NoError(t, err)
	var refs []string
	require.NoError(t, json.Unmarshal(res.Value, &refs))
	require.Len(t, refs, 1, "first revision has a tree and no parents")

	res, err = inv.Invoke(ctx, []string{"tree", "read", refs[0]}, nil)
	require.NoError(t, err)
	var root store.Tree
	require.NoError(t, json.Unmarshal(res.Value, &root))
	require.Len(t, root, 1)
	assert.Equal(t, "docs", root[0].Name)
	assert.Equal(t, store.KindTree, root[0].Kind)

	_, err = inv.Invoke(ctx, []string{"remove", "docs", "readme"}, nil)
	require.NoError(t, err)
	res, err = inv.Invoke(ctx, []string{"read", "docs", "readme"}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(res.Value))
}

func TestRoutes_Errors(t *testing.T) {
	ctx := context.Background()
	inv, _ := newInvoker(t)

	_, err := inv.Invoke(ctx, []string{"value", "read", "XYZ"}, nil)
	assert.True(t, codec.IsDecodeError(err))
	assert.ErrorIs(t, err, store.ErrInvalidKey)

	_, err = inv.Invoke(ctx, []string{"tag", "update"}, body(t, `["", "abc"]`))
	assert.ErrorIs(t, err, store.ErrInvalidTag)

	_, err = inv.Invoke(ctx, []string{"update"}, body(t, `[[], "v"]`))
	assert.ErrorIs(t, err, store.ErrInvalidPath)

	_, err = inv.Invoke(ctx, []string{"tag", "update", "x"}, nil)
	assert.ErrorIs(t, err, route.ErrTooFewArguments)
}

// fakeHandle shows the tree serving a handle type other than *store.Store.
type fakeHandle struct {
	tags *store.Tags
	st   *store.Store
}

func TestRoutes_CustomHandle(t *testing.T) {
	s, err := store.New(store.NewMemory(), store.Config{})
	require.NoError(t, err)
	h := &fakeHandle{tags: s.Tags(), st: s}

	caps := Capabilities[*fakeHandle]{
		Values:    func(h *fakeHandle) ContentStore[store.Value] { return h.st.Values() },
		Trees:     func(h *fakeHandle) ContentStore[store.Tree] { return h.st.Trees() },
		Revisions: func(h *fakeHandle) ContentStore[store.Revision] { return h.st.Revisions() },
		Tags:      func(h *fakeHandle) TagStore { return h.tags },
		Paths:     func(h *fakeHandle) PathStore { return h.st },
		Key:       store.KeyCodec(),
		Value:     store.ValueCodec(),
		Tree:      store.TreeCodec(),
		Revision:  store.RevisionCodec(),
		Tag:       store.TagCodec(),
		Path:      store.PathCodec(),
	}
	inv := dispatch.Bind(dispatch.New(Routes(caps)), h)

	res, err := inv.Invoke(context.Background(), []string{"tag", "mem", "heads", "main"}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `false`, string(res.Value))
}
