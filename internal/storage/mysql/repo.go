// Package mysql implements the survey repository on database/sql with the
// go-sql-driver MySQL driver. MySQL keeps a transaction usable after a
// statement fails, so per-row isolation needs no savepoints here; only a lost
// connection breaks the batch.
package mysql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"

	"surveyetl/internal/storage"
)

// Config holds MySQL repository configuration. Schema is the database name;
// MySQL treats the two as the same thing.
type Config struct {
	DSN    string
	Schema string
	Table  string
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config

	// Load transaction state. Set by Begin, cleared by Commit and close.
	tx   *sql.Tx
	stmt *sql.Stmt
}

// NewRepository opens a MySQL connection and returns a Repository plus a
// close function for cleanup. The DSN is parsed up front to fail fast on
// obvious mistakes, and parseTime is forced on so DATETIME columns round-trip
// as time.Time.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	dsn, err := normalizeDSN(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	r := &Repository{db: db, cfg: cfg}
	return r, r.close, nil
}

// normalizeDSN validates the DSN and forces parseTime on.
func normalizeDSN(dsn string) (string, error) {
	c, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("mysql dsn: %w", err)
	}
	c.ParseTime = true
	return c.FormatDSN(), nil
}

func (r *Repository) close() {
	r.endTx()
	_ = r.db.Close()
}

// endTx rolls back any open transaction and releases the prepared insert.
func (r *Repository) endTx() {
	if r.stmt != nil {
		_ = r.stmt.Close()
		r.stmt = nil
	}
	if r.tx != nil {
		_ = r.tx.Rollback()
		r.tx = nil
	}
}

// Exec runs a standalone statement, typically DDL, outside the load
// transaction.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

// Begin opens the load transaction and prepares the row insert.
func (r *Repository) Begin(ctx context.Context) error {
	if r.tx != nil {
		return fmt.Errorf("mysql: transaction already open")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL(r.cfg.Schema, r.cfg.Table, storage.DataColumns()))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	r.tx, r.stmt = tx, stmt
	return nil
}

// Insert adds one row inside the open transaction. A row the server rejects
// returns an error while the transaction stays usable; the error wraps
// storage.ErrBatchBroken only when the connection itself is gone.
func (r *Repository) Insert(ctx context.Context, args []any) error {
	if r.stmt == nil {
		return fmt.Errorf("mysql: insert outside transaction: %w", storage.ErrBatchBroken)
	}
	if _, err := r.stmt.ExecContext(ctx, args...); err != nil {
		if errors.Is(err, driver.ErrBadConn) || errors.Is(err, gomysql.ErrInvalidConn) {
			return fmt.Errorf("insert: %v: %w", err, storage.ErrBatchBroken)
		}
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// Commit commits the load transaction.
func (r *Repository) Commit(ctx context.Context) error {
	if r.tx == nil {
		return fmt.Errorf("mysql: commit without transaction")
	}
	if r.stmt != nil {
		_ = r.stmt.Close()
		r.stmt = nil
	}
	err := r.tx.Commit()
	r.tx = nil
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Count returns the number of rows in the target table.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM " + myFQN(r.cfg.Schema, r.cfg.Table)
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// insertSQL builds INSERT INTO `schema`.`table` (`c1`, ...) VALUES (?, ...).
func insertSQL(schema, table string, cols []string) string {
	quoted := make([]string, len(cols))
	ph := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = myIdent(c)
		ph[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		myFQN(schema, table),
		strings.Join(quoted, ", "),
		strings.Join(ph, ", "))
}

// myIdent quotes a single identifier segment with backticks.
func myIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// myFQN renders the database-qualified table name; an empty schema yields
// the bare quoted table.
func myFQN(schema, table string) string {
	if schema == "" {
		return myIdent(table)
	}
	return myIdent(schema) + "." + myIdent(table)
}
