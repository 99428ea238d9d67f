package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content addressing. The version suffix leaves room
// for changing the canonical form later.
const (
	DomainValue    = "graystore/value/v1"
	DomainTree     = "graystore/tree/v1"
	DomainRevision = "graystore/revision/v1"
)

// hashWithDomain computes SHA256(domain || 0x00 || data) as lowercase hex.
func hashWithDomain(domain string, data []byte) Key {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return Key(hex.EncodeToString(h.Sum(nil)))
}

// ValueKey returns the key a value is stored under.
func ValueKey(v Value) Key {
	_, data, _ := canonicalValue(v)
	return hashWithDomain(DomainValue, data)
}

// TreeKey returns the key a tree is stored under.
func TreeKey(t Tree) (Key, error) {
	_, data, err := canonicalTree(t)
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainTree, data), nil
}

// RevisionKey returns the key a revision is stored under.
func RevisionKey(r Revision) (Key, error) {
	_, data, err := canonicalRevision(r)
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainRevision, data), nil
}

// Values are opaque and hashed byte for byte.
func canonicalValue(v Value) (Value, []byte, error) {
	return v, []byte(v), nil
}

// canonicalTree NFC-normalises names, sorts entries and validates the result.
func canonicalTree(t Tree) (Tree, []byte, error) {
	out := make(Tree, len(t))
	for i, e := range t {
		e.Name = norm.NFC.String(e.Name)
		out[i] = e
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if err := out.Validate(); err != nil {
		return nil, nil, err
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, nil, fmt.Errorf("marshalling tree: %w", err)
	}
	return out, data, nil
}

// canonicalRevision NFC-normalises text fields and validates the result.
func canonicalRevision(r Revision) (Revision, []byte, error) {
	r.Author = norm.NFC.String(r.Author)
	r.Message = norm.NFC.String(r.Message)
	parents := make([]Key, len(r.Parents))
	copy(parents, r.Parents)
	r.Parents = parents
	if err := r.Validate(); err != nil {
		return Revision{}, nil, err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return Revision{}, nil, fmt.Errorf("marshalling revision: %w", err)
	}
	return r, data, nil
}
