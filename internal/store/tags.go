package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Tags is the sub-store of mutable names. Tag names are NFC-normalised.
type Tags struct {
	backend Backend
}

// Read returns the key tag points at, or nil if the tag does not exist.
func (t *Tags) Read(ctx context.Context, tag Tag) (*Key, error) {
	tag = normTag(tag)
	if tag.Validate() != nil {
		return nil, nil
	}
	key, err := t.backend.GetRef(ctx, string(tag))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tag %s: %w", tag, err)
	}
	return &key, nil
}

// Mem reports whether tag exists.
func (t *Tags) Mem(ctx context.Context, tag Tag) (bool, error) {
	key, err := t.Read(ctx, tag)
	if err != nil {
		return false, err
	}
	return key != nil, nil
}

// List returns every tag equal to prefix or below it, sorted.
// An empty prefix lists all tags.
func (t *Tags) List(ctx context.Context, prefix Tag) ([]Tag, error) {
	prefix = Tag(strings.Trim(string(normTag(prefix)), "/"))
	names, err := t.backend.ListRefs(ctx, string(prefix))
	if err != nil {
		return nil, fmt.Errorf("listing tags %s: %w", prefix, err)
	}
	tags := make([]Tag, 0, len(names))
	for _, name := range names {
		if prefix == "" || name == string(prefix) || strings.HasPrefix(name, string(prefix)+"/") {
			tags = append(tags, Tag(name))
		}
	}
	return tags, nil
}

// Update points tag at key, creating the tag if needed. The key need not
// name a stored object.
func (t *Tags) Update(ctx context.Context, tag Tag, key Key) error {
	tag = normTag(tag)
	if err := tag.Validate(); err != nil {
		return err
	}
	if err := key.Validate(); err != nil {
		return err
	}
	if err := t.backend.SetRef(ctx, string(tag), key); err != nil {
		return fmt.Errorf("updating tag %s: %w", tag, err)
	}
	return nil
}

// Remove deletes tag. Removing an absent tag is a no-op.
func (t *Tags) Remove(ctx context.Context, tag Tag) error {
	tag = normTag(tag)
	if err := tag.Validate(); err != nil {
		return err
	}
	if _, err := t.backend.DeleteRef(ctx, string(tag)); err != nil {
		return fmt.Errorf("removing tag %s: %w", tag, err)
	}
	return nil
}

func normTag(tag Tag) Tag {
	return Tag(norm.NFC.String(string(tag)))
}
