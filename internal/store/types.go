package store

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind identifies the type of a stored object.
type Kind string

// Object kinds.
const (
	KindValue    Kind = "value"
	KindTree     Kind = "tree"
	KindRevision Kind = "revision"
)

// Key is the lowercase hex SHA-256 digest addressing an object.
type Key string

// Validate checks that k is a non-empty lowercase hex string.
func (k Key) Validate() error {
	if k == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	for i := 0; i < len(k); i++ {
		c := k[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return fmt.Errorf("%w: %q is not lowercase hex", ErrInvalidKey, string(k))
		}
	}
	return nil
}

// Value is opaque text contents.
type Value string

// Entry is one named member of a Tree.
type Entry struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	Key  Key    `json:"key"`
}

// Tree is a list of entries kept sorted by name.
type Tree []Entry

// Validate checks entry names, kinds and keys, and rejects duplicate names.
func (t Tree) Validate() error {
	seen := make(map[string]bool, len(t))
	for _, e := range t {
		if err := validateSegment(e.Name); err != nil {
			return fmt.Errorf("%w: entry name %q", ErrInvalidTree, e.Name)
		}
		if e.Kind != KindValue && e.Kind != KindTree {
			return fmt.Errorf("%w: entry %q has kind %q", ErrInvalidTree, e.Name, e.Kind)
		}
		if err := e.Key.Validate(); err != nil {
			return fmt.Errorf("%w: entry %q: %w", ErrInvalidTree, e.Name, err)
		}
		if seen[e.Name] {
			return fmt.Errorf("%w: duplicate entry %q", ErrInvalidTree, e.Name)
		}
		seen[e.Name] = true
	}
	return nil
}

// find returns the index of name, or where it would be inserted.
func (t Tree) find(name string) (int, bool) {
	i := sort.Search(len(t), func(i int) bool { return t[i].Name >= name })
	return i, i < len(t) && t[i].Name == name
}

// with returns a copy of t with e inserted or replacing the entry of the same name.
func (t Tree) with(e Entry) Tree {
	i, found := t.find(e.Name)
	out := make(Tree, 0, len(t)+1)
	out = append(out, t[:i]...)
	out = append(out, e)
	if found {
		i++
	}
	return append(out, t[i:]...)
}

// without returns a copy of t with the entry at i removed.
func (t Tree) without(i int) Tree {
	out := make(Tree, 0, len(t)-1)
	out = append(out, t[:i]...)
	return append(out, t[i+1:]...)
}

// Revision is a snapshot of a root tree.
type Revision struct {
	Tree    Key    `json:"tree"`
	Parents []Key  `json:"parents"`
	Date    int64  `json:"date"`
	Author  string `json:"author"`
	Message string `json:"message"`
}

// Validate checks the tree and parent keys.
func (r Revision) Validate() error {
	if err := r.Tree.Validate(); err != nil {
		return fmt.Errorf("%w: tree: %w", ErrInvalidRevision, err)
	}
	for i, p := range r.Parents {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: parent %d: %w", ErrInvalidRevision, i, err)
		}
	}
	return nil
}

// Tag is a mutable name made of slash-separated segments.
type Tag string

// Validate checks that t is non-empty and has no empty segment.
func (t Tag) Validate() error {
	if t == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTag)
	}
	for _, seg := range strings.Split(string(t), "/") {
		if seg == "" {
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidTag, string(t))
		}
	}
	return nil
}

// Path addresses a value inside the head tree.
type Path []string

// String renders p in absolute slash form, e.g. "/a/b".
func (p Path) String() string {
	return "/" + strings.Join(p, "/")
}

// normalize returns p with every segment in NFC, matching the names trees
// are stored under.
func (p Path) normalize() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	for i, seg := range p {
		out[i] = norm.NFC.String(seg)
	}
	return out
}

// Validate checks that p is non-empty and every segment is a valid entry name.
func (p Path) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	for _, seg := range p {
		if err := validateSegment(seg); err != nil {
			return fmt.Errorf("%w: segment %q", ErrInvalidPath, seg)
		}
	}
	return nil
}

// validateSegment accepts non-empty names without slashes.
func validateSegment(name string) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid segment %q", name)
	}
	return nil
}
