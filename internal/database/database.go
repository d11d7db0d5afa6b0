package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// localParams makes every write transaction take the database write lock at BEGIN,
// so two publishes against the same file can never interleave.
const localParams = "_txlock=immediate&_foreign_keys=on&_busy_timeout=5000"

// InitDB opens the database and migrates it to the latest schema.
// An empty primaryUrl opens a local SQLite file (or ":memory:"); otherwise the remote
// libsql primary is used. The returned teardown closes the connection.
func InitDB(dbPath string, primaryUrl string, authToken string) (*sql.DB, func(), error) {
	var (
		db      *sql.DB
		dialect string
		err     error
	)
	if primaryUrl == "" {
		log.Info("Initializing local-only SQLite database", "path", dbPath)
		db, err = sql.Open("sqlite3", localDSN(dbPath))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open local database: %w", err)
		}
		// One connection: in-memory databases are per-connection, and SQLite has a single writer anyway.
		db.SetMaxOpenConns(1)
		dialect = "sqlite3"
	} else {
		log.Info("Initializing Turso database", "url", primaryUrl)
		db, err = sql.Open("libsql", primaryUrl+"?authToken="+authToken)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db %s: %w", primaryUrl, err)
		}
		dialect = "turso"
	}

	if err = migrate(db, dialect); err != nil {
		db.Close() // Close on error
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	teardown := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}
	return db, teardown, nil
}

func localDSN(dbPath string) string {
	if dbPath == ":memory:" {
		return "file::memory:?" + localParams
	}
	return "file:" + dbPath + "?" + localParams
}

func migrate(db *sql.DB, dialect string) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return err
	}
	version, err := goose.GetDBVersion(db)
	if err != nil {
		return err
	}
	log.Info("Database initialized successfully", "schema_version", version)
	return nil
}
