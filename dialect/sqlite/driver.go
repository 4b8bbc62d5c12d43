package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	// SQLite driver registered as "sqlite".
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver name of SQLite.
const DriverName = "sqlite"

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// TxBeginner starts transactions. It is implemented by *sql.DB and *sql.Conn.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Apply executes the statements in order in a single transaction. Nothing
// is applied if one of them fails.
func Apply(ctx context.Context, db TxBeginner, stmts []string) (rerr error) {
	if len(stmts) == 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("dialect/sqlite: begin: %w", err)
	}
	defer func() {
		if rerr != nil {
			rerr = errors.Join(rerr, rollback(tx))
		}
	}()
	if err := exec(ctx, tx, stmts); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("dialect/sqlite: commit: %w", err)
	}
	return nil
}

func exec(ctx context.Context, ex ExecQuerier, stmts []string) error {
	for i, stmt := range stmts {
		if _, err := ex.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("dialect/sqlite: exec statement %d: %w", i+1, err)
		}
	}
	return nil
}

func rollback(tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("dialect/sqlite: rollback: %w", err)
	}
	return nil
}

// OpenMemory opens a private in-memory database with foreign keys enforced.
// The pool is limited to one connection, since every SQLite connection to
// an in-memory database sees its own database.
func OpenMemory() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
