package database

import (
	"context"
	"database/sql"
)

// Querier is the query surface shared by a pooled connection and an
// open transaction, so repository writes can run inside either.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

// DB is the narrow collection-store contract the repositories depend on.
// The postgres package provides the production implementation over pgxpool.
type DB interface {
	Querier

	Ping(ctx context.Context) error
	Close() error

	Begin(ctx context.Context) (Tx, error)

	// SQLDB exposes a database/sql bridge for tooling (migrations).
	SQLDB() *sql.DB
}

type Tx interface {
	Querier

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Close()
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type Row interface {
	Scan(dest ...any) error
}
