// This adapter wires the Postgres backend into the storage-agnostic factory
// by registering a constructor at init time. The CLI obtains a Repository via
// storage.New(...) without importing this package directly. It also registers
// the DDL bootstrapper that recreates the target table for a full-replace
// load, so callers branch only on storage.Config.Kind.
package postgres

import (
	"context"
	"fmt"

	"surveyetl/internal/storage"
	pgddl "surveyetl/internal/storage/postgres/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo adapts *postgres.Repository to storage.Repository, adding a
// Close method that calls the cleanup function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Ensure wrappedRepo satisfies storage.Repository at compile time.
var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:    cfg.DSN,
			Schema: cfg.Schema,
			Table:  cfg.Table,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("postgres", func(ctx context.Context, repo storage.Repository, cfg storage.Config) error {
		if err := pgddl.Recreate(ctx, repo, cfg.Schema, cfg.Table); err != nil {
			return fmt.Errorf("recreate target table: %w", err)
		}
		return nil
	})
}
