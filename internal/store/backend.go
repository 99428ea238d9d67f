package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Backend persists immutable objects and mutable refs.
//
// Objects are addressed by kind and key; writing an object that already
// exists is a no-op. Refs map names to keys.
type Backend interface {
	// GetObject returns the stored bytes, or ErrNotFound.
	GetObject(ctx context.Context, kind Kind, key Key) ([]byte, error)
	PutObject(ctx context.Context, kind Kind, key Key, data []byte) error
	HasObject(ctx context.Context, kind Kind, key Key) (bool, error)

	// GetRef returns the key a ref points at, or ErrNotFound.
	GetRef(ctx context.Context, name string) (Key, error)
	SetRef(ctx context.Context, name string, key Key) error
	// DeleteRef removes a ref and reports whether it existed.
	DeleteRef(ctx context.Context, name string) (bool, error)
	// ListRefs returns the names starting with prefix, sorted.
	ListRefs(ctx context.Context, prefix string) ([]string, error)
}

// Memory is a Backend held in process memory. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	objects map[Kind]map[Key][]byte
	refs    map[string]Key
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		objects: make(map[Kind]map[Key][]byte),
		refs:    make(map[string]Key),
	}
}

func (m *Memory) GetObject(_ context.Context, kind Kind, key Key) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[kind][key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Memory) PutObject(_ context.Context, kind Kind, key Key, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byKey, ok := m.objects[kind]
	if !ok {
		byKey = make(map[Key][]byte)
		m.objects[kind] = byKey
	}
	if _, exists := byKey[key]; exists {
		return nil
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	byKey[key] = stored
	return nil
}

func (m *Memory) HasObject(_ context.Context, kind Kind, key Key) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[kind][key]
	return ok, nil
}

func (m *Memory) GetRef(_ context.Context, name string) (Key, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key, ok := m.refs[name]
	if !ok {
		return "", ErrNotFound
	}
	return key, nil
}

func (m *Memory) SetRef(_ context.Context, name string, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs[name] = key
	return nil
}

func (m *Memory) DeleteRef(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.refs[name]
	delete(m.refs, name)
	return ok, nil
}

func (m *Memory) ListRefs(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.refs))
	for name := range m.refs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
