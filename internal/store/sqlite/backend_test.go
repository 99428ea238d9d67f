package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nerrad567/graystore/internal/infrastructure/database"
	"github.com/nerrad567/graystore/internal/store"
	"github.com/nerrad567/graystore/internal/store/storetest"
	_ "github.com/nerrad567/graystore/migrations"
)

// openTestDB opens a migrated database in a temporary directory.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "store.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestBackend(t *testing.T) {
	storetest.RunBackend(t, func(t *testing.T) store.Backend {
		return New(openTestDB(t))
	})
}

func TestBackend_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")
	cfg := database.Config{Path: path, WALMode: true, BusyTimeout: 5}

	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))

	s, err := store.New(New(db), store.Config{})
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, store.Path{"a"}, "kept"))
	require.NoError(t, db.Close())

	db, err = database.Open(cfg)
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck // Test cleanup
	require.NoError(t, db.Migrate(ctx))

	s, err = store.New(New(db), store.Config{})
	require.NoError(t, err)
	v, err := s.Read(ctx, store.Path{"a"})
	require.NoError(t, err)
	require.NotNil(t, v)
	require.Equal(t, store.Value("kept"), *v)
}
