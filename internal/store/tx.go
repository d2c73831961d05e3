package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrTxClosed reports a statement or commit attempted on a scope that has
// already reached a terminal state.
var ErrTxClosed = errors.New("store: transaction scope is closed")

// Conn is the dedicated-connection surface a transaction scope drives:
// statements plus the commit/rollback demarcation. pgx.Tx satisfies it.
type Conn interface {
	DBTX
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxState tracks where a scope is in its lifecycle.
type TxState int

const (
	// TxOpen means statements may run and commit/rollback are reachable.
	TxOpen TxState = iota
	// TxCommitted and TxRolledBack are terminal; the dedicated connection
	// has been released back to the pool.
	TxCommitted
	TxRolledBack
)

// Tx is one transaction scope over a dedicated pooled connection.
//
// The lifecycle is Open -> Committed | RolledBack, terminal on either.
// Statements issued through the scope execute in program order on the same
// connection and see each other's writes. Callers must arrange for
// `defer tx.Rollback(ctx)` immediately after Begin so the connection is
// released on every exit path; Rollback after Commit is a no-op.
type Tx struct {
	conn  Conn
	state TxState
}

// WrapTx places a freshly opened connection under scope management. The
// connection must have an open transaction on it.
func WrapTx(conn Conn) *Tx {
	return &Tx{conn: conn, state: TxOpen}
}

// State reports the scope's current lifecycle state.
func (t *Tx) State() TxState { return t.state }

func (t *Tx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if t.state != TxOpen {
		return pgconn.CommandTag{}, ErrTxClosed
	}
	return t.conn.Exec(ctx, sql, args...)
}

func (t *Tx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if t.state != TxOpen {
		return nil, ErrTxClosed
	}
	return t.conn.Query(ctx, sql, args...)
}

func (t *Tx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if t.state != TxOpen {
		return closedRow{}
	}
	return t.conn.QueryRow(ctx, sql, args...)
}

// Commit issues COMMIT and releases the dedicated connection. A failed
// commit still leaves the scope terminal; the connection is released either
// way.
func (t *Tx) Commit(ctx context.Context) error {
	if t.state != TxOpen {
		return ErrTxClosed
	}
	if err := t.conn.Commit(ctx); err != nil {
		t.state = TxRolledBack
		return err
	}
	t.state = TxCommitted
	return nil
}

// Rollback issues ROLLBACK and releases the dedicated connection. On an
// already-terminal scope it returns nil, which makes it safe to defer
// unconditionally after Begin.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.state != TxOpen {
		return nil
	}
	t.state = TxRolledBack
	return t.conn.Rollback(ctx)
}

// closedRow is returned for statements on a terminal scope.
type closedRow struct{}

func (closedRow) Scan(dest ...any) error { return ErrTxClosed }

// Beginner opens transaction scopes. Store satisfies it; tests substitute
// fakes.
type Beginner interface {
	Begin(ctx context.Context) (*Tx, error)
}

// WithinTx runs fn inside one transaction scope and commits if fn returns
// nil. Rollback is deferred before fn runs, so the dedicated connection is
// released on every exit path, including panics; it is a no-op once the
// commit has gone through.
func WithinTx(ctx context.Context, b Beginner, fn func(tx *Tx) error) error {
	tx, err := b.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
