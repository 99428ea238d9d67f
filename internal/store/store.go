package store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Defaults applied by New for zero Config fields.
const (
	DefaultBranch Tag    = "main"
	DefaultAuthor string = "graystore"
)

// Config controls how path operations record history.
type Config struct {
	// Branch is the tag whose head revision the path operations work on.
	Branch Tag

	// Author is recorded on revisions created by Update and Remove.
	Author string

	// Now supplies revision dates. Defaults to time.Now.
	Now func() time.Time
}

// Store is the top-level handle: entity sub-stores plus path operations.
type Store struct {
	backend   Backend
	values    *Contents[Value]
	trees     *Contents[Tree]
	revisions *Contents[Revision]
	tags      *Tags

	branch Tag
	author string
	now    func() time.Time

	// mu serialises path writers so each update sees the previous head.
	mu sync.Mutex
}

// New returns a Store over backend.
func New(backend Backend, cfg Config) (*Store, error) {
	if cfg.Branch == "" {
		cfg.Branch = DefaultBranch
	}
	cfg.Branch = normTag(cfg.Branch)
	if err := cfg.Branch.Validate(); err != nil {
		return nil, fmt.Errorf("branch: %w", err)
	}
	if cfg.Author == "" {
		cfg.Author = DefaultAuthor
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{
		backend:   backend,
		values:    newValues(backend),
		trees:     newTrees(backend),
		revisions: newRevisions(backend),
		tags:      &Tags{backend: backend},
		branch:    cfg.Branch,
		author:    cfg.Author,
		now:       cfg.Now,
	}, nil
}

// Values returns the value sub-store.
func (s *Store) Values() *Contents[Value] { return s.values }

// Trees returns the tree sub-store.
func (s *Store) Trees() *Contents[Tree] { return s.trees }

// Revisions returns the revision sub-store.
func (s *Store) Revisions() *Contents[Revision] { return s.revisions }

// Tags returns the tag sub-store.
func (s *Store) Tags() *Tags { return s.tags }

// Branch returns the tag path operations work on.
func (s *Store) Branch() Tag { return s.branch }

// Head returns the key of the branch's head revision, or nil before the
// first write.
func (s *Store) Head(ctx context.Context) (*Key, error) {
	return s.tags.Read(ctx, s.branch)
}

// Read returns the value at path in the head tree, or nil.
func (s *Store) Read(ctx context.Context, path Path) (*Value, error) {
	path = path.normalize()
	if len(path) == 0 {
		return nil, nil
	}
	root, err := s.headTree(ctx)
	if err != nil {
		return nil, err
	}
	e, err := s.lookup(ctx, root, path)
	if err != nil || e == nil || e.Kind != KindValue {
		return nil, err
	}
	return s.values.Read(ctx, e.Key)
}

// Mem reports whether a value exists at path.
func (s *Store) Mem(ctx context.Context, path Path) (bool, error) {
	v, err := s.Read(ctx, path)
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

// List returns the full paths of the direct children of the tree at path.
// The empty path lists the root. A value or absent path has no children.
func (s *Store) List(ctx context.Context, path Path) ([]Path, error) {
	path = path.normalize()
	t, err := s.headTree(ctx)
	if err != nil {
		return nil, err
	}
	if len(path) > 0 {
		e, err := s.lookup(ctx, t, path)
		if err != nil {
			return nil, err
		}
		if e == nil || e.Kind != KindTree {
			return []Path{}, nil
		}
		if t, err = s.loadTree(ctx, e.Key); err != nil {
			return nil, err
		}
	}
	out := make([]Path, len(t))
	for i, e := range t {
		child := make(Path, 0, len(path)+1)
		child = append(child, path...)
		out[i] = append(child, e.Name)
	}
	return out, nil
}

// Update writes v at path, replacing any value found on a prefix of path by
// a tree, and records a new revision on the branch. Writing the value already
// present records nothing.
func (s *Store) Update(ctx context.Context, path Path, v Value) error {
	path = path.normalize()
	if err := path.Validate(); err != nil {
		return err
	}
	key, err := s.values.Add(ctx, v)
	if err != nil {
		return err
	}
	return s.commit(ctx, path, &Entry{Kind: KindValue, Key: key}, "update "+path.String())
}

// Remove deletes whatever is at path and prunes trees left empty.
// Removing an absent path records nothing.
func (s *Store) Remove(ctx context.Context, path Path) error {
	path = path.normalize()
	if err := path.Validate(); err != nil {
		return err
	}
	return s.commit(ctx, path, nil, "remove "+path.String())
}

// commit rewrites the head tree at path and moves the branch to a new
// revision when the tree changed.
func (s *Store) commit(ctx context.Context, path Path, e *Entry, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	head, err := s.Head(ctx)
	if err != nil {
		return err
	}
	var root Tree
	if head != nil {
		rev, err := s.loadRevision(ctx, *head)
		if err != nil {
			return err
		}
		if root, err = s.loadTree(ctx, rev.Tree); err != nil {
			return err
		}
	}

	root, changed, err := s.rewrite(ctx, root, path, e)
	if err != nil || !changed {
		return err
	}
	rootKey, err := s.trees.Add(ctx, root)
	if err != nil {
		return err
	}

	rev := Revision{
		Tree:    rootKey,
		Parents: []Key{},
		Date:    s.now().Unix(),
		Author:  s.author,
		Message: message,
	}
	if head != nil {
		rev.Parents = append(rev.Parents, *head)
	}
	revKey, err := s.revisions.Add(ctx, rev)
	if err != nil {
		return err
	}
	return s.tags.Update(ctx, s.branch, revKey)
}

// rewrite returns t with the entry at path set to e, or removed when e is
// nil, storing every rewritten subtree on the way back up.
func (s *Store) rewrite(ctx context.Context, t Tree, path Path, e *Entry) (Tree, bool, error) {
	name := path[0]
	i, found := t.find(name)

	if len(path) == 1 {
		if e == nil {
			if !found {
				return t, false, nil
			}
			return t.without(i), true, nil
		}
		next := Entry{Name: name, Kind: e.Kind, Key: e.Key}
		if found && t[i] == next {
			return t, false, nil
		}
		return t.with(next), true, nil
	}

	var child Tree
	switch {
	case found && t[i].Kind == KindTree:
		var err error
		if child, err = s.loadTree(ctx, t[i].Key); err != nil {
			return nil, false, err
		}
	case e == nil:
		// nothing below a value or a missing entry
		return t, false, nil
	}

	child, changed, err := s.rewrite(ctx, child, path[1:], e)
	if err != nil || !changed {
		return t, false, err
	}
	if len(child) == 0 {
		return t.without(i), true, nil
	}
	key, err := s.trees.Add(ctx, child)
	if err != nil {
		return nil, false, err
	}
	return t.with(Entry{Name: name, Kind: KindTree, Key: key}), true, nil
}

// lookup walks path from root and returns the entry it ends on, or nil.
func (s *Store) lookup(ctx context.Context, root Tree, path Path) (*Entry, error) {
	t := root
	for depth, name := range path {
		i, found := t.find(name)
		if !found {
			return nil, nil
		}
		e := t[i]
		if depth == len(path)-1 {
			return &e, nil
		}
		if e.Kind != KindTree {
			return nil, nil
		}
		var err error
		if t, err = s.loadTree(ctx, e.Key); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// headTree returns the root tree of the head revision, empty before the
// first write.
func (s *Store) headTree(ctx context.Context) (Tree, error) {
	head, err := s.Head(ctx)
	if err != nil || head == nil {
		return Tree{}, err
	}
	rev, err := s.loadRevision(ctx, *head)
	if err != nil {
		return nil, err
	}
	return s.loadTree(ctx, rev.Tree)
}

func (s *Store) loadTree(ctx context.Context, key Key) (Tree, error) {
	t, err := s.trees.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: tree %s: %w", ErrCorrupt, key, ErrNotFound)
	}
	return *t, nil
}

func (s *Store) loadRevision(ctx context.Context, key Key) (Revision, error) {
	r, err := s.revisions.Read(ctx, key)
	if err != nil {
		return Revision{}, err
	}
	if r == nil {
		return Revision{}, fmt.Errorf("%w: revision %s: %w", ErrCorrupt, key, ErrNotFound)
	}
	return *r, nil
}
