package route

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/graystore/internal/codec"
)

// counter is a toy store handle: a named set of integers.
type counter struct {
	values map[string]bool
	sub    *counter
}

var errBoom = errors.New("boom")

func mem(_ context.Context, c *counter, k string) (bool, error) {
	if k == "explode" {
		return false, errBoom
	}
	return c.values[k], nil
}

func set(_ context.Context, c *counter, k string, v bool) (codec.Unit, error) {
	c.values[k] = v
	return codec.Unit{}, nil
}

func subStore(c *counter) *counter { return c.sub }

func testTree() *Node[*counter] {
	return Branch(
		Named("top", Branch(
			Named("mem", Unary(Identity[*counter], mem, codec.String(), codec.Bool())),
			Named("set", Binary(Identity[*counter], set, codec.String(), codec.Bool(), codec.UnitCodec())),
		)),
		Named("sub", Branch(
			Named("mem", Unary(subStore, mem, codec.String(), codec.Bool())),
			Named("deep", Branch(
				Named("set", Binary(subStore, set, codec.String(), codec.Bool(), codec.UnitCodec())),
			)),
		)),
		Named("empty", Branch[*counter]()),
	)
}

func newCounter() *counter {
	return &counter{values: map[string]bool{}, sub: &counter{values: map[string]bool{}}}
}

func params(raw ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(raw))
	for i, r := range raw {
		out[i] = json.RawMessage(r)
	}
	return out
}

func TestChild(t *testing.T) {
	root := testTree()

	top, err := root.Child("top")
	require.NoError(t, err)
	assert.False(t, top.IsLeaf())

	leaf, err := top.Child("mem")
	require.NoError(t, err)
	assert.True(t, leaf.IsLeaf())
	assert.Equal(t, 1, leaf.Arity())

	_, err = root.Child("bogus")
	var ua *UnknownActionError
	require.ErrorAs(t, err, &ua)
	assert.Equal(t, "bogus", ua.Name)

	// leaves have no children
	_, err = leaf.Child("anything")
	require.ErrorAs(t, err, &ua)
	assert.Equal(t, "anything", ua.Name)
}

func TestDescribe(t *testing.T) {
	root := testTree()
	assert.Equal(t, []string{
		"top/mem",
		"top/set",
		"sub/mem",
		"sub/deep/set",
	}, root.Describe())

	sub, err := root.Child("sub")
	require.NoError(t, err)
	assert.Equal(t, []string{"mem", "deep/set"}, sub.Describe())

	leaf, err := sub.Child("mem")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, leaf.Describe())
}

func TestDescribe_EveryPathResolves(t *testing.T) {
	root := testTree()
	for _, p := range root.Describe() {
		node := root
		for _, seg := range strings.Split(p, "/") {
			var err error
			node, err = node.Child(seg)
			require.NoError(t, err, "path %q", p)
		}
		assert.True(t, node.IsLeaf(), "path %q should end on a leaf", p)
	}
}

func TestUnary_Arity(t *testing.T) {
	root := testTree()
	top, _ := root.Child("top")
	leaf, _ := top.Child("mem")
	c := newCounter()
	c.values["k"] = true

	_, err := leaf.Invoke(context.Background(), c, nil)
	assert.ErrorIs(t, err, ErrTooFewArguments)

	_, err = leaf.Invoke(context.Background(), c, params(`"k"`, `"j"`))
	assert.ErrorIs(t, err, ErrTooManyArguments)
	var ac *ArgumentCountError
	require.ErrorAs(t, err, &ac)
	assert.Equal(t, 1, ac.Want)
	assert.Equal(t, 2, ac.Got)

	out, err := leaf.Invoke(context.Background(), c, params(`"k"`))
	require.NoError(t, err)
	assert.JSONEq(t, `true`, string(out))
}

func TestBinary_Arity(t *testing.T) {
	root := testTree()
	top, _ := root.Child("top")
	leaf, _ := top.Child("set")
	c := newCounter()

	_, err := leaf.Invoke(context.Background(), c, params(`"k"`))
	assert.ErrorIs(t, err, ErrTooFewArguments)

	_, err = leaf.Invoke(context.Background(), c, params(`"k"`, `true`, `1`))
	assert.ErrorIs(t, err, ErrTooManyArguments)

	out, err := leaf.Invoke(context.Background(), c, params(`"k"`, `true`))
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(out))
	assert.True(t, c.values["k"])
}

func TestBinding_Projection(t *testing.T) {
	root := testTree()
	c := newCounter()

	deep, _ := root.Child("sub")
	deep, _ = deep.Child("deep")
	leaf, _ := deep.Child("set")

	_, err := leaf.Invoke(context.Background(), c, params(`"k"`, `true`))
	require.NoError(t, err)
	assert.True(t, c.sub.values["k"])
	assert.False(t, c.values["k"])
}

func TestBinding_DecodeError(t *testing.T) {
	root := testTree()
	top, _ := root.Child("top")
	leaf, _ := top.Child("set")

	_, err := leaf.Invoke(context.Background(), newCounter(), params(`"k"`, `"yes"`))
	require.Error(t, err)
	assert.True(t, codec.IsDecodeError(err))
	assert.Contains(t, err.Error(), "parameter 1")
}

func TestBinding_StoreErrorPassesThrough(t *testing.T) {
	root := testTree()
	top, _ := root.Child("top")
	leaf, _ := top.Child("mem")

	_, err := leaf.Invoke(context.Background(), newCounter(), params(`"explode"`))
	assert.Same(t, errBoom, err)
}

func TestBranch_PanicsOnBadDefinitions(t *testing.T) {
	leaf := Unary(Identity[*counter], mem, codec.String(), codec.Bool())

	assert.Panics(t, func() { Branch(Named("a", leaf), Named("a", leaf)) })
	assert.Panics(t, func() { Branch(Named("", leaf)) })
	assert.Panics(t, func() { Branch(Named("a/b", leaf)) })
	assert.Panics(t, func() { Branch(Named[*counter]("a", nil)) })
}

func TestInvoke_OnBranch(t *testing.T) {
	_, err := testTree().Invoke(context.Background(), newCounter(), nil)
	assert.Error(t, err)
}
