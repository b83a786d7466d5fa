// Package postgres implements the survey repository on pgx v5. The load runs
// on a single pooled connection with one transaction per run; every row is
// wrapped in a savepoint so a rejected row does not poison the batch.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"surveyetl/internal/storage"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN    string // connection string for pgxpool
	Schema string // namespace holding the target table, e.g. "health_survey"
	Table  string // bare table name, e.g. "survey_data"
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config

	// Load transaction state. Set by Begin, cleared by Commit and close.
	conn      *pgxpool.Conn
	tx        pgx.Tx
	insertSQL string
}

// NewRepository connects a pool and returns a Repository plus a close
// function for cleanup. The pool is pinged so a bad DSN fails here rather
// than at the first statement.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	r := &Repository{pool: pool, cfg: cfg}
	return r, r.close, nil
}

func (r *Repository) close() {
	r.endTx(context.Background())
	r.pool.Close()
}

// endTx rolls back any open transaction and releases its connection.
func (r *Repository) endTx(ctx context.Context) {
	if r.tx != nil {
		_ = r.tx.Rollback(ctx)
		r.tx = nil
	}
	if r.conn != nil {
		r.conn.Release()
		r.conn = nil
	}
}

// Exec runs a standalone statement, typically DDL, outside the load
// transaction.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	_, err := r.pool.Exec(ctx, sql)
	return err
}

// Begin acquires a dedicated connection and opens the load transaction.
func (r *Repository) Begin(ctx context.Context) error {
	if r.tx != nil {
		return fmt.Errorf("postgres: transaction already open")
	}
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	tx, err := conn.Begin(ctx)
	if err != nil {
		conn.Release()
		return fmt.Errorf("begin: %w", err)
	}
	r.conn, r.tx = conn, tx
	r.insertSQL = insertSQL(r.cfg.Schema, r.cfg.Table, storage.DataColumns())
	return nil
}

// Insert adds one row inside the open transaction. Postgres aborts the whole
// transaction when any statement fails, so each row runs under a savepoint:
// rolling back to it restores the transaction for the rows that follow. The
// returned error wraps storage.ErrBatchBroken only when that recovery itself
// failed.
func (r *Repository) Insert(ctx context.Context, args []any) error {
	if r.tx == nil {
		return fmt.Errorf("postgres: insert outside transaction: %w", storage.ErrBatchBroken)
	}
	if _, err := r.tx.Exec(ctx, "SAVEPOINT survey_row"); err != nil {
		return fmt.Errorf("savepoint: %v: %w", err, storage.ErrBatchBroken)
	}
	if _, err := r.tx.Exec(ctx, r.insertSQL, args...); err != nil {
		if _, rbErr := r.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT survey_row"); rbErr != nil {
			return fmt.Errorf("%v; rollback to savepoint: %v: %w", rowErr(err), rbErr, storage.ErrBatchBroken)
		}
		return rowErr(err)
	}
	if _, err := r.tx.Exec(ctx, "RELEASE SAVEPOINT survey_row"); err != nil {
		return fmt.Errorf("release savepoint: %v: %w", err, storage.ErrBatchBroken)
	}
	return nil
}

// rowErr renders an insert failure, surfacing the server's detail line when
// there is one.
func rowErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("insert: %s: %s (%s)", pgErr.Message, pgErr.Detail, pgErr.SQLState())
	}
	return fmt.Errorf("insert: %w", err)
}

// Commit commits the load transaction and releases its connection.
func (r *Repository) Commit(ctx context.Context) error {
	if r.tx == nil {
		return fmt.Errorf("postgres: commit without transaction")
	}
	err := r.tx.Commit(ctx)
	r.tx = nil
	r.conn.Release()
	r.conn = nil
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Count returns the number of rows in the target table.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM " + pgFQN(r.cfg.Schema, r.cfg.Table)
	if err := r.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// insertSQL builds the positional insert statement for the survey data
// columns: INSERT INTO "schema"."table" ("c1", ...) VALUES ($1, ...).
func insertSQL(schema, table string, cols []string) string {
	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgFQN(schema, table),
		strings.Join(mapIdent(cols), ", "),
		strings.Join(ph, ", "))
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN renders the schema-qualified table name; an empty schema yields the
// bare quoted table.
func pgFQN(schema, table string) string {
	if schema == "" {
		return pgIdent(table)
	}
	return pgIdent(schema) + "." + pgIdent(table)
}

// mapIdent maps column names to their quoted forms.
func mapIdent(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = pgIdent(c)
	}
	return out
}
