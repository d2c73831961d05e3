package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn stands in for the dedicated transaction connection.
type fakeConn struct {
	execErr     error
	commitErr   error
	rollbackErr error

	execCalls int
	commits   int
	rollbacks int
}

func (c *fakeConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.execCalls++
	return pgconn.CommandTag{}, c.execErr
}

func (c *fakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("fakeConn: Query not supported")
}

func (c *fakeConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return closedRow{}
}

func (c *fakeConn) Commit(ctx context.Context) error {
	c.commits++
	return c.commitErr
}

func (c *fakeConn) Rollback(ctx context.Context) error {
	c.rollbacks++
	return c.rollbackErr
}

func TestTx_CommitTransitionsToTerminal(t *testing.T) {
	conn := &fakeConn{}
	tx := WrapTx(conn)

	require.Equal(t, TxOpen, tx.State())
	require.NoError(t, tx.Commit(context.Background()))
	assert.Equal(t, TxCommitted, tx.State())
	assert.Equal(t, 1, conn.commits)
}

func TestTx_RollbackAfterCommitIsNoOp(t *testing.T) {
	conn := &fakeConn{}
	tx := WrapTx(conn)

	require.NoError(t, tx.Commit(context.Background()))
	require.NoError(t, tx.Rollback(context.Background()))

	assert.Equal(t, TxCommitted, tx.State())
	assert.Equal(t, 0, conn.rollbacks, "rollback after commit must not reach the connection")
}

func TestTx_DoubleRollbackReleasesOnce(t *testing.T) {
	conn := &fakeConn{}
	tx := WrapTx(conn)

	require.NoError(t, tx.Rollback(context.Background()))
	require.NoError(t, tx.Rollback(context.Background()))

	assert.Equal(t, TxRolledBack, tx.State())
	assert.Equal(t, 1, conn.rollbacks)
}

func TestTx_StatementsRejectedOnceTerminal(t *testing.T) {
	conn := &fakeConn{}
	tx := WrapTx(conn)
	ctx := context.Background()

	require.NoError(t, tx.Commit(ctx))

	_, err := tx.Exec(ctx, "INSERT INTO boards(name) VALUES($1)", "x")
	assert.ErrorIs(t, err, ErrTxClosed)

	_, err = tx.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ErrTxClosed)

	err = tx.QueryRow(ctx, "SELECT 1").Scan()
	assert.ErrorIs(t, err, ErrTxClosed)

	assert.ErrorIs(t, tx.Commit(ctx), ErrTxClosed)
}

func TestTx_FailedCommitStillReleases(t *testing.T) {
	conn := &fakeConn{commitErr: errors.New("connection reset")}
	tx := WrapTx(conn)

	err := tx.Commit(context.Background())
	require.Error(t, err)

	// Terminal either way; a later deferred Rollback must not double-release.
	assert.Equal(t, TxRolledBack, tx.State())
	require.NoError(t, tx.Rollback(context.Background()))
	assert.Equal(t, 0, conn.rollbacks)
}

type fakeBeginner struct {
	conn     *fakeConn
	beginErr error
	begun    int
}

func (b *fakeBeginner) Begin(ctx context.Context) (*Tx, error) {
	b.begun++
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	b.conn = &fakeConn{}
	return WrapTx(b.conn), nil
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	b := &fakeBeginner{}

	err := WithinTx(context.Background(), b, func(tx *Tx) error {
		_, err := tx.Exec(context.Background(), "INSERT INTO boards(name) VALUES($1)", "x")
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, b.conn.commits)
	assert.Equal(t, 0, b.conn.rollbacks)
}

func TestWithinTx_RollsBackOnFailure(t *testing.T) {
	b := &fakeBeginner{}
	boom := errors.New("boom")

	err := WithinTx(context.Background(), b, func(tx *Tx) error {
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, b.conn.commits)
	assert.Equal(t, 1, b.conn.rollbacks, "connection must be released exactly once")
}

func TestWithinTx_ReleasesOnPanic(t *testing.T) {
	b := &fakeBeginner{}

	require.Panics(t, func() {
		_ = WithinTx(context.Background(), b, func(tx *Tx) error {
			panic("handler bug")
		})
	})

	assert.Equal(t, 1, b.conn.rollbacks)
}

func TestWithinTx_SustainedFailuresNeverLeak(t *testing.T) {
	// Pool-exhaustion guard: across many failing scopes, every dedicated
	// connection must come back.
	const n = 50
	boom := errors.New("association insert failed")

	for i := 0; i < n; i++ {
		b := &fakeBeginner{}
		err := WithinTx(context.Background(), b, func(tx *Tx) error {
			return boom
		})
		require.Error(t, err)
		require.Equal(t, 1, b.conn.rollbacks)
		require.Equal(t, 0, b.conn.commits)
	}
}

func TestWithinTx_PropagatesBeginFailure(t *testing.T) {
	b := &fakeBeginner{beginErr: errors.New("no connection available")}

	err := WithinTx(context.Background(), b, func(tx *Tx) error {
		t.Fatal("fn must not run when begin fails")
		return nil
	})

	require.Error(t, err)
}
