package database

import (
	"context"
	"io/fs"
	"testing"
	"testing/fstest"
)

// useMigrations installs fsys as the migration source for one test.
func useMigrations(t *testing.T, fsys fs.FS, dir string) {
	t.Helper()
	origFS, origDir := MigrationsFS, MigrationsDir
	t.Cleanup(func() {
		MigrationsFS, MigrationsDir = origFS, origDir
	})
	MigrationsFS, MigrationsDir = fsys, dir
}

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"sql/20260101_000000_objects.up.sql": {Data: []byte(
			`CREATE TABLE objects_t (key TEXT PRIMARY KEY, data BLOB NOT NULL) STRICT;`)},
		"sql/20260101_000000_objects.down.sql": {Data: []byte(`DROP TABLE objects_t;`)},
		"sql/20260102_000000_refs.up.sql": {Data: []byte(
			`CREATE TABLE refs_t (name TEXT PRIMARY KEY, key TEXT NOT NULL) STRICT;`)},
		"sql/20260102_000000_refs.down.sql": {Data: []byte(`DROP TABLE refs_t;`)},
		"sql/README.md":                     {Data: []byte("ignored")},
	}
}

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&n)
	if err != nil {
		t.Fatalf("querying sqlite_master: %v", err)
	}
	return n == 1
}

func TestMigrate(t *testing.T) {
	useMigrations(t, testMigrations(), "sql")
	ctx := context.Background()
	db := openTestDB(t)

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	for _, table := range []string{"objects_t", "refs_t"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s not created", table)
		}
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 2 || len(pending) != 0 {
		t.Errorf("applied=%d pending=%d, want 2 and 0", len(applied), len(pending))
	}
	if applied[0].Version != "20260101_000000" || applied[0].AppliedAt.IsZero() {
		t.Errorf("first applied = %+v", applied[0])
	}

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestMigrateDown(t *testing.T) {
	useMigrations(t, testMigrations(), "sql")
	ctx := context.Background()
	db := openTestDB(t)

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.MigrateDown(ctx); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}

	if tableExists(t, db, "refs_t") {
		t.Error("refs_t should be dropped by the latest down migration")
	}
	if !tableExists(t, db, "objects_t") {
		t.Error("objects_t should remain")
	}

	_, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(pending) != 1 || pending[0].Name != "refs" {
		t.Errorf("pending = %+v, want the refs migration", pending)
	}
}

func TestMigrateDown_NothingApplied(t *testing.T) {
	useMigrations(t, testMigrations(), "sql")
	db := openTestDB(t)

	if err := db.MigrateDown(context.Background()); err != nil {
		t.Errorf("MigrateDown() with nothing applied error = %v", err)
	}
}

func TestMigrateDown_MissingDownSQL(t *testing.T) {
	useMigrations(t, fstest.MapFS{
		"20260101_000000_once.up.sql": {Data: []byte(`CREATE TABLE once_t (id INTEGER) STRICT;`)},
	}, ".")
	ctx := context.Background()
	db := openTestDB(t)

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.MigrateDown(ctx); err == nil {
		t.Error("MigrateDown() without down SQL should fail")
	}
}

func TestMigrate_FailureKeepsEarlierMigrations(t *testing.T) {
	useMigrations(t, fstest.MapFS{
		"20260101_000000_good.up.sql": {Data: []byte(`CREATE TABLE good_t (id INTEGER) STRICT;`)},
		"20260102_000000_bad.up.sql":  {Data: []byte(`CREATE TABLE nonsense (`)},
	}, ".")
	ctx := context.Background()
	db := openTestDB(t)

	if err := db.Migrate(ctx); err == nil {
		t.Fatal("Migrate() with broken SQL should fail")
	}
	if !tableExists(t, db, "good_t") {
		t.Error("good_t should stay applied")
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 1 || len(pending) != 1 {
		t.Errorf("applied=%d pending=%d, want 1 and 1", len(applied), len(pending))
	}
}

func TestMigrate_NoMigrations(t *testing.T) {
	useMigrations(t, nil, ".")
	db := openTestDB(t)

	if err := db.Migrate(context.Background()); err != nil {
		t.Errorf("Migrate() with no migrations error = %v", err)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantUp      bool
		wantOk      bool
	}{
		{name: "up", filename: "20260301_120000_object_store.up.sql", wantVersion: "20260301_120000", wantUp: true, wantOk: true},
		{name: "down", filename: "20260301_120000_object_store.down.sql", wantVersion: "20260301_120000", wantOk: true},
		{name: "no description", filename: "20260301_120000.up.sql", wantVersion: "20260301_120000", wantUp: true, wantOk: true},
		{name: "not sql", filename: "readme.txt"},
		{name: "missing direction", filename: "20260301_120000_object_store.sql"},
		{name: "no version", filename: "invalid.up.sql"},
		{name: "empty clock", filename: "20260301_.up.sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, up, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if version != tt.wantVersion {
				t.Errorf("version = %v, want %v", version, tt.wantVersion)
			}
			if up != tt.wantUp {
				t.Errorf("up = %v, want %v", up, tt.wantUp)
			}
		})
	}
}

func TestExtractMigrationName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"20260301_120000_object_store.up.sql", "object_store"},
		{"20260301_120000_object_store.down.sql", "object_store"},
		{"20260301_120000.up.sql", "20260301_120000"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := extractMigrationName(tt.filename); got != tt.want {
				t.Errorf("extractMigrationName(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
