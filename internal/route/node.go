package route

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Handler runs one bound operation against the store handle s.
type Handler[S any] func(ctx context.Context, s S, params []json.RawMessage) (json.RawMessage, error)

// Entry is a named child of a Branch.
type Entry[S any] struct {
	Name string
	Node *Node[S]
}

// Named pairs a segment name with a subtree, for use with Branch.
func Named[S any](name string, node *Node[S]) Entry[S] {
	return Entry[S]{Name: name, Node: node}
}

// Node is either a leaf (handler != nil) or a branch of named children.
type Node[S any] struct {
	handler  Handler[S]
	arity    int
	children []Entry[S]
	index    map[string]*Node[S]
}

// Leaf returns a node that invokes h with exactly arity parameters.
func Leaf[S any](arity int, h Handler[S]) *Node[S] {
	if h == nil {
		panic("route.Leaf: nil handler")
	}
	if arity < 0 {
		panic(fmt.Sprintf("route.Leaf: negative arity %d", arity))
	}
	return &Node[S]{handler: h, arity: arity}
}

// Branch returns a node with the given children, kept in order.
//
// Trees are static definitions, so an empty or duplicate name, or a nil
// child, is a programming error and panics.
func Branch[S any](entries ...Entry[S]) *Node[S] {
	n := &Node[S]{
		children: make([]Entry[S], 0, len(entries)),
		index:    make(map[string]*Node[S], len(entries)),
	}
	for _, e := range entries {
		if e.Name == "" || strings.Contains(e.Name, "/") {
			panic(fmt.Sprintf("route.Branch: invalid segment name %q", e.Name))
		}
		if e.Node == nil {
			panic(fmt.Sprintf("route.Branch: nil node for %q", e.Name))
		}
		if _, dup := n.index[e.Name]; dup {
			panic(fmt.Sprintf("route.Branch: duplicate segment %q", e.Name))
		}
		n.children = append(n.children, e)
		n.index[e.Name] = e.Node
	}
	return n
}

// IsLeaf reports whether n is bound to an operation.
func (n *Node[S]) IsLeaf() bool {
	return n.handler != nil
}

// Arity returns the parameter count a leaf accepts (0 for branches).
func (n *Node[S]) Arity() int {
	return n.arity
}

// Children returns a copy of a branch's entries in definition order.
func (n *Node[S]) Children() []Entry[S] {
	out := make([]Entry[S], len(n.children))
	copy(out, n.children)
	return out
}

// Child resolves one path segment. Leaves have no children.
func (n *Node[S]) Child(name string) (*Node[S], error) {
	if n.IsLeaf() {
		return nil, &UnknownActionError{Name: name}
	}
	child, ok := n.index[name]
	if !ok {
		return nil, &UnknownActionError{Name: name}
	}
	return child, nil
}

// Describe lists the slash-joined path from n to every reachable leaf,
// depth-first in child order. A leaf describes itself as the empty path.
func (n *Node[S]) Describe() []string {
	var out []string
	n.describe("", &out)
	return out
}

func (n *Node[S]) describe(prefix string, out *[]string) {
	if n.IsLeaf() {
		*out = append(*out, prefix)
		return
	}
	for _, e := range n.children {
		p := e.Name
		if prefix != "" {
			p = prefix + "/" + e.Name
		}
		e.Node.describe(p, out)
	}
}

// Invoke runs a leaf's handler after checking the parameter count.
func (n *Node[S]) Invoke(ctx context.Context, s S, params []json.RawMessage) (json.RawMessage, error) {
	if !n.IsLeaf() {
		return nil, fmt.Errorf("route: invoke on a branch node")
	}
	if len(params) != n.arity {
		return nil, &ArgumentCountError{Want: n.arity, Got: len(params)}
	}
	return n.handler(ctx, s, params)
}
