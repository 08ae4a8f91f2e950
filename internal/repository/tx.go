// Package repository implements the ledger storage interfaces over MySQL.
// A single Store type satisfies every per-service interface in the ledger
// package; its methods are spread across one file per aggregate. All
// timestamps are stored and returned in UTC.
package repository

import (
	"context"
	"database/sql"
)

type txKey struct{}

// Store is the MySQL-backed ledger store.
type Store struct {
	db *sql.DB
}

// NewStore binds a Store to an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// WithTx runs fn inside one transaction. The transaction rides on the
// context, so every Store method called with the ctx passed to fn joins it;
// nested WithTx calls reuse the outer transaction. fn returning an error
// rolls everything back.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// querier is the subset of *sql.DB / *sql.Tx the repositories use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// q returns the active transaction when one rides on ctx, else the pool.
func (s *Store) q(ctx context.Context) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}
