// Package dispatch resolves request paths against a route tree and invokes
// the leaf they reach.
//
// Resolution walks the tree one segment at a time. Reaching a leaf stops the
// walk: any segments left over are encoded as a single list-of-strings
// parameter and placed in front of the body parameters, so clients can name
// an entity in the URL and still pass further arguments in the body. A path
// that ends on a branch produces that branch's Describe listing instead.
package dispatch
