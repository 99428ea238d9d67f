// Package route holds the static tree that maps URL path segments to store
// operations.
//
// A tree is made of Branch nodes (ordered, named children) and Leaf nodes
// (an operation with a fixed parameter count). Trees are assembled once,
// before serving, and are never mutated afterwards, so a single tree can be
// shared by every in-flight request without locking.
//
// Leaves are normally produced by Unary and Binary, which adapt a typed store
// operation and its codecs into a handler over JSON parameters.
package route
