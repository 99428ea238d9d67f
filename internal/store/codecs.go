package store

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/nerrad567/graystore/internal/codec"
)

// KeyCodec decodes a key from a JSON string, or from a list of strings that
// are concatenated (so a key can be split across URL segments). Keys encode
// as a JSON string.
func KeyCodec() codec.Codec[Key] {
	parts := codec.Path()
	str := codec.String()
	return codec.New("key",
		func(raw json.RawMessage) (Key, error) {
			var s string
			if isArray(raw) {
				segs, err := parts.Decode(raw)
				if err != nil {
					return "", err
				}
				s = strings.Join(segs, "")
			} else {
				var err error
				if s, err = str.Decode(raw); err != nil {
					return "", err
				}
			}
			k := Key(s)
			if err := k.Validate(); err != nil {
				return "", err
			}
			return k, nil
		},
		func(k Key) json.RawMessage { return str.Encode(string(k)) },
	)
}

// ValueCodec maps values to JSON strings.
func ValueCodec() codec.Codec[Value] {
	str := codec.String()
	return codec.New("value",
		func(raw json.RawMessage) (Value, error) {
			s, err := str.Decode(raw)
			return Value(s), err
		},
		func(v Value) json.RawMessage { return str.Encode(string(v)) },
	)
}

// TreeCodec maps trees to JSON arrays of {"name","kind","key"} objects.
func TreeCodec() codec.Codec[Tree] {
	return codec.JSON("tree", Tree.Validate)
}

// RevisionCodec maps revisions to JSON objects.
func RevisionCodec() codec.Codec[Revision] {
	return codec.JSON("revision", Revision.Validate)
}

// TagCodec decodes a tag from a JSON string, or from a list of segments
// joined with "/". Tags encode as a JSON string. Validity is checked by the
// operations, so the empty tag decodes and lists every tag.
func TagCodec() codec.Codec[Tag] {
	parts := codec.Path()
	str := codec.String()
	return codec.New("tag",
		func(raw json.RawMessage) (Tag, error) {
			if isArray(raw) {
				segs, err := parts.Decode(raw)
				return Tag(strings.Join(segs, "/")), err
			}
			s, err := str.Decode(raw)
			return Tag(s), err
		},
		func(t Tag) json.RawMessage { return str.Encode(string(t)) },
	)
}

// PathCodec maps paths to JSON lists of segments.
func PathCodec() codec.Codec[Path] {
	parts := codec.Path()
	return codec.New("path",
		func(raw json.RawMessage) (Path, error) {
			segs, err := parts.Decode(raw)
			return Path(segs), err
		},
		func(p Path) json.RawMessage { return parts.Encode(p) },
	)
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
