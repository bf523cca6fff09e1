package db

import (
	"database/sql"
	"fmt"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (creating if necessary) the embedded store at path and applies
// the schema. The caller owns the handle: open once at process start, close
// at process end.
func Open(path string) (*sql.DB, error) {
	dbConn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db at %s: %w", path, err)
	}

	if _, err := dbConn.Exec(Schema); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return dbConn, nil
}

var testDBCounter atomic.Int64

// NewTestDB returns a fresh in-memory store for tests. Each call gets a
// uniquely named shared-cache database so every pooled connection sees
// the same tables, matching how connections share a file-backed store.
func NewTestDB() (*sql.DB, error) {
	name := fmt.Sprintf("file:fundtrack_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	return Open(name)
}
