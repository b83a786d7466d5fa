// Package sqlite implements the survey repository on database/sql with the
// modernc.org/sqlite driver, giving the pipeline a file-backed target that
// needs no running server. A failed statement leaves the transaction usable,
// so per-row isolation needs no savepoints here.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"surveyetl/internal/storage"
)

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config

	// Load transaction state. Set by Begin, cleared by Commit and close.
	tx   *sql.Tx
	stmt *sql.Stmt
}

// NewRepository opens the SQLite database and returns a Repository plus a
// close function for cleanup. The DSN is passed to the driver as-is; a ping
// with a short timeout fails fast on unusable paths.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	// Wait out concurrent writers instead of failing with SQLITE_BUSY.
	_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;")
	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys = ON;")

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
		return fmt.Errorf("sqlite: transaction already open")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL(r.cfg.Table, storage.DataColumns()))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	r.tx, r.stmt = tx, stmt
	return nil
}

// Insert adds one row inside the open transaction. A rejected row returns an
// error while the transaction stays usable; the error wraps
// storage.ErrBatchBroken only when the connection itself is gone.
func (r *Repository) Insert(ctx context.Context, args []any) error {
	if r.stmt == nil {
		return fmt.Errorf("sqlite: insert outside transaction: %w", storage.ErrBatchBroken)
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
		return fmt.Errorf("sqlite: commit without transaction")
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
	q := "SELECT COUNT(*) FROM " + quoteIdent(r.cfg.Table)
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// insertSQL builds INSERT INTO "table" ("c1", ...) VALUES (?, ...).
func insertSQL(table string, cols []string) string {
	quoted := make([]string, len(cols))
	ph := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		ph[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table),
		strings.Join(quoted, ", "),
		strings.Join(ph, ", "))
}

// quoteIdent quotes a single identifier segment for SQLite.
func quoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
