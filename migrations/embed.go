// Package migrations embeds the SQL schema for the SQLite store backend.
//
// Importing this package registers the files with the database package, so
// database.DB.Migrate can run without the SQL present on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/graystore/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
