package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/graystore/internal/codec"
)

func TestKeyCodec(t *testing.T) {
	c := KeyCodec()

	k, err := c.Decode(json.RawMessage(`"abc123"`))
	require.NoError(t, err)
	assert.Equal(t, Key("abc123"), k)

	k, err = c.Decode(json.RawMessage(`["ab","c1","23"]`))
	require.NoError(t, err)
	assert.Equal(t, Key("abc123"), k)

	assert.JSONEq(t, `"abc123"`, string(c.Encode("abc123")))

	for _, bad := range []string{`null`, `""`, `"XYZ"`, `[]`, `[1]`, `42`} {
		_, err := c.Decode(json.RawMessage(bad))
		assert.True(t, codec.IsDecodeError(err), "input %s", bad)
	}

	_, err = c.Decode(json.RawMessage(`"nothex"`))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestTagCodec(t *testing.T) {
	c := TagCodec()

	tag, err := c.Decode(json.RawMessage(`"mytag"`))
	require.NoError(t, err)
	assert.Equal(t, Tag("mytag"), tag)

	tag, err = c.Decode(json.RawMessage(`["heads","main"]`))
	require.NoError(t, err)
	assert.Equal(t, Tag("heads/main"), tag)

	tag, err = c.Decode(json.RawMessage(`""`))
	require.NoError(t, err)
	assert.Equal(t, Tag(""), tag)

	_, err = c.Decode(json.RawMessage(`null`))
	assert.True(t, codec.IsDecodeError(err))
}

func TestValueCodec(t *testing.T) {
	c := ValueCodec()
	v, err := c.Decode(c.Encode("line\nwith \"quotes\""))
	require.NoError(t, err)
	assert.Equal(t, Value("line\nwith \"quotes\""), v)

	_, err = c.Decode(json.RawMessage(`{"x":1}`))
	assert.True(t, codec.IsDecodeError(err))
}

func TestTreeCodec(t *testing.T) {
	c := TreeCodec()
	key := ValueKey("x")
	tree := Tree{{Name: "a", Kind: KindValue, Key: key}, {Name: "b", Kind: KindTree, Key: key}}

	got, err := c.Decode(c.Encode(tree))
	require.NoError(t, err)
	assert.Equal(t, tree, got)

	_, err = c.Decode(json.RawMessage(`[{"name":"a","kind":"value","key":"` + string(key) + `","extra":1}]`))
	assert.True(t, codec.IsDecodeError(err), "unknown fields are rejected")

	_, err = c.Decode(json.RawMessage(`[{"name":"","kind":"value","key":"` + string(key) + `"}]`))
	assert.ErrorIs(t, err, ErrInvalidTree)

	_, err = c.Decode(json.RawMessage(`{"name":"a"}`))
	assert.True(t, codec.IsDecodeError(err))
}

func TestRevisionCodec(t *testing.T) {
	c := RevisionCodec()
	rev := Revision{Tree: ValueKey("t"), Parents: []Key{ValueKey("p")}, Date: 42, Author: "me", Message: "msg"}

	got, err := c.Decode(c.Encode(rev))
	require.NoError(t, err)
	assert.Equal(t, rev, got)

	_, err = c.Decode(json.RawMessage(`{"tree":"ZZ","parents":[],"date":0,"author":"","message":""}`))
	assert.ErrorIs(t, err, ErrInvalidRevision)
}

func TestPathCodec(t *testing.T) {
	c := PathCodec()
	p, err := c.Decode(json.RawMessage(`["a","b"]`))
	require.NoError(t, err)
	assert.Equal(t, Path{"a", "b"}, p)
	assert.JSONEq(t, `["a","b"]`, string(c.Encode(p)))
	assert.JSONEq(t, `[]`, string(c.Encode(nil)))
}
