// Package mssql implements the survey repository on database/sql with the
// go-mssqldb driver. SQL Server aborts only the failing statement, not the
// transaction, so per-row isolation needs no savepoints here; only a lost
// connection breaks the batch.
package mssql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"surveyetl/internal/storage"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN    string
	Schema string
	Table  string
}

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config

	// Load transaction state. Set by Begin, cleared by Commit and close.
	tx   *sql.Tx
	stmt *sql.Stmt
}

// NewRepository opens a SQL Server connection and returns a Repository plus
// a close function for cleanup. The DSN is parsed up front to fail fast on
// obvious mistakes.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
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
		return fmt.Errorf("mssql: transaction already open")
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
		return fmt.Errorf("mssql: insert outside transaction: %w", storage.ErrBatchBroken)
	}
	if _, err := r.stmt.ExecContext(ctx, args...); err != nil {
		if errors.Is(err, driver.ErrBadConn) {
			return fmt.Errorf("insert: %v: %w", err, storage.ErrBatchBroken)
		}
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// Commit commits the load transaction.
func (r *Repository) Commit(ctx context.Context) error {
	if r.tx == nil {
		return fmt.Errorf("mssql: commit without transaction")
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
	q := "SELECT COUNT(*) FROM " + msFQN(r.cfg.Schema, r.cfg.Table)
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// insertSQL builds INSERT INTO [schema].[table] ([c1], ...) VALUES (@p1, ...).
func insertSQL(schema, table string, cols []string) string {
	quoted := make([]string, len(cols))
	ph := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = msIdent(c)
		ph[i] = fmt.Sprintf("@p%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		msFQN(schema, table),
		strings.Join(quoted, ", "),
		strings.Join(ph, ", "))
}

// msIdent quotes a single identifier segment with brackets.
func msIdent(id string) string { return "[" + strings.ReplaceAll(id, "]", "]]") + "]" }

// msFQN renders the schema-qualified table name; an empty schema yields the
// bare quoted table.
func msFQN(schema, table string) string {
	if schema == "" {
		return msIdent(table)
	}
	return msIdent(schema) + "." + msIdent(table)
}
