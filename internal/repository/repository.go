package repository

import "database/sql"

// queryable lets repository methods run against either the shared handle or
// an explicit transaction, matching the tx-optional mutator convention.
type queryable interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}
