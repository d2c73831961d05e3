// Package store provides the database access layer: a pooled query executor
// and explicitly demarcated transaction scopes.
//
// All SQL runs with positional placeholders and out-of-band parameters;
// statement text is never built from untrusted values. Repository code is
// written against the DBTX interface, which both the pool-backed Store and
// an open Tx satisfy, so the same statement helpers run inside or outside a
// transaction scope.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrTimeout reports that a bounded wait on the store elapsed, either
// acquiring a pooled connection or executing a statement.
var ErrTimeout = errors.New("store: timed out waiting for the database")

// QueryFailure wraps any error the store returned for a statement. The
// executor does not classify store errors; the underlying message rides
// along for the caller.
type QueryFailure struct {
	Op  string
	Err error
}

func (e *QueryFailure) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *QueryFailure) Unwrap() error { return e.Err }

// DBTX is the statement surface shared by the pool and an open transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store wraps the shared pgx pool. Plain statements borrow a connection for
// their duration; Begin hands out a Tx holding one dedicated connection.
type Store struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

// New creates a Store over the given pool. acquireTimeout bounds the wait
// for a dedicated connection when opening a transaction scope.
func New(pool *pgxpool.Pool, acquireTimeout time.Duration) *Store {
	return &Store{pool: pool, acquireTimeout: acquireTimeout}
}

func (s *Store) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return s.pool.Exec(ctx, sql, args...)
}

func (s *Store) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.pool.Query(ctx, sql, args...)
}

func (s *Store) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.pool.QueryRow(ctx, sql, args...)
}

// Ping verifies the pool can reach the database.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Begin acquires one dedicated connection from the pool and opens a
// transaction on it. The wait is bounded by the store's acquire timeout and
// surfaces as ErrTimeout instead of blocking indefinitely.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, s.acquireTimeout)
	defer cancel()

	tx, err := s.pool.Begin(acquireCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &QueryFailure{Op: "begin transaction", Err: ErrTimeout}
		}
		return nil, &QueryFailure{Op: "begin transaction", Err: err}
	}
	return WrapTx(tx), nil
}
