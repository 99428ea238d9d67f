// Package database opens the SQLite file behind the sqlite store backend and
// applies its schema migrations.
//
// The connection runs in WAL mode with a busy timeout and a single pooled
// connection. Tables are declared STRICT so a mistyped column fails loudly.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.{up,down}.sql and
// are supplied through MigrationsFS, normally by importing the migrations
// package. Migrations are additive: new columns are nullable or defaulted.
package database
