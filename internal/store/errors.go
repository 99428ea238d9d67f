package store

import "errors"

var (
	// ErrNotFound is returned by a Backend when an object or ref does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidKey is returned when a key is not a non-empty lowercase hex string.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidTag is returned when a tag is empty or has an empty segment.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrInvalidPath is returned when a path is empty or has an invalid segment.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidTree is returned when tree entries are malformed or duplicated.
	ErrInvalidTree = errors.New("invalid tree")

	// ErrInvalidRevision is returned when a revision references invalid keys.
	ErrInvalidRevision = errors.New("invalid revision")

	// ErrCorrupt is returned when a stored object cannot be parsed.
	ErrCorrupt = errors.New("corrupt object")
)

// IsValidation reports whether err was caused by invalid caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidKey) ||
		errors.Is(err, ErrInvalidTag) ||
		errors.Is(err, ErrInvalidPath) ||
		errors.Is(err, ErrInvalidTree) ||
		errors.Is(err, ErrInvalidRevision)
}
