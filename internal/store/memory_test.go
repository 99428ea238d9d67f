package store_test

import (
	"testing"

	"github.com/nerrad567/graystore/internal/store"
	"github.com/nerrad567/graystore/internal/store/storetest"
)

func TestMemoryBackend(t *testing.T) {
	storetest.RunBackend(t, func(*testing.T) store.Backend {
		return store.NewMemory()
	})
}
