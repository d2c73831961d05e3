package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"taskboard/internal/store"
)

// The fakes below stand in for the pgx-facing store surfaces so service
// behavior can be exercised without a database.

// assignDest copies a fake column value into a scan destination.
func assignDest(dest, value any) error {
	switch d := dest.(type) {
	case *string:
		*d = value.(string)
	case *bool:
		*d = value.(bool)
	case *pgtype.Text:
		*d = value.(pgtype.Text)
	case *pgtype.Date:
		*d = value.(pgtype.Date)
	default:
		return fmt.Errorf("unsupported scan destination %T", dest)
	}
	return nil
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		if i >= len(r.values) {
			break
		}
		if err := assignDest(dest[i], r.values[i]); err != nil {
			return err
		}
	}
	return nil
}

// fakeRows implements pgx.Rows over an in-memory result set.
type fakeRows struct {
	cols []string
	data [][]any
	idx  int
}

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.idx-1]
	for i := range dest {
		if err := assignDest(dest[i], row[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRows) Values() ([]any, error) { return r.data[r.idx-1], nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

// stmt records one executed statement with its out-of-band parameters.
type stmt struct {
	sql  string
	args []any
}

// fakeTxConn is the dedicated connection behind one transaction scope.
type fakeTxConn struct {
	rowFor     func(sql string, args []any) fakeRow
	execErrFor func(sql string) error

	stmts     []stmt
	commits   int
	rollbacks int
}

func (c *fakeTxConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.stmts = append(c.stmts, stmt{sql: sql, args: args})
	if c.execErrFor != nil {
		if err := c.execErrFor(sql); err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	return pgconn.CommandTag{}, nil
}

func (c *fakeTxConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("fakeTxConn: Query not supported")
}

func (c *fakeTxConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	c.stmts = append(c.stmts, stmt{sql: sql, args: args})
	if c.rowFor != nil {
		return c.rowFor(sql, args)
	}
	return fakeRow{}
}

func (c *fakeTxConn) Commit(ctx context.Context) error {
	c.commits++
	return nil
}

func (c *fakeTxConn) Rollback(ctx context.Context) error {
	c.rollbacks++
	return nil
}

// fakeDB implements the service's DB interface.
type fakeDB struct {
	// transaction scopes
	newConn  func() *fakeTxConn
	conns    []*fakeTxConn
	beginErr error
	begun    int

	// plain statements
	queryErr error
	rowsFn   func() *fakeRows
	rowFn    func(sql string, args []any) fakeRow
	stmts    []stmt
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.stmts = append(db.stmts, stmt{sql: sql, args: args})
	return pgconn.CommandTag{}, nil
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.stmts = append(db.stmts, stmt{sql: sql, args: args})
	if db.queryErr != nil {
		return nil, db.queryErr
	}
	if db.rowsFn != nil {
		return db.rowsFn(), nil
	}
	return &fakeRows{}, nil
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.stmts = append(db.stmts, stmt{sql: sql, args: args})
	if db.rowFn != nil {
		return db.rowFn(sql, args)
	}
	return fakeRow{}
}

func (db *fakeDB) Begin(ctx context.Context) (*store.Tx, error) {
	db.begun++
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	conn := &fakeTxConn{}
	if db.newConn != nil {
		conn = db.newConn()
	}
	db.conns = append(db.conns, conn)
	return store.WrapTx(conn), nil
}
