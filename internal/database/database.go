package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
)

// Memory opens a private in-memory database, used by tests and by clients
// started without a save file.
const Memory = ":memory:"

// Open opens the local save database through libSQL. File databases use a
// WAL journal with NORMAL sync; both kinds get a 5 s busy timeout.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("libsql", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == Memory {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	// Some of these return a row and libSQL refuses those through Exec, so
	// run them all as queries and discard the rows.
	for _, p := range pragmas(path) {
		rows, err := db.QueryContext(ctx, p)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %s: %w", p, err)
		}
		rows.Close()
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

func dsn(path string) string {
	if path == Memory {
		return "file::memory:"
	}
	return "file:" + path
}

func pragmas(path string) []string {
	if path == Memory {
		return []string{"PRAGMA busy_timeout=5000"}
	}
	return []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
}
