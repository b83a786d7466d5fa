// Package storage contains backend-agnostic contracts for the destination
// database: the Repository interface the loader drives, a factory registry
// the backends hook into at init time, and the shared definition of the
// survey target table.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Config carries everything a backend needs to open a Repository.
type Config struct {
	// Kind selects a registered backend: postgres, mysql, mssql, sqlite.
	Kind string

	// DSN is the backend connection string.
	DSN string

	// Schema is the namespace holding the target table. SQLite ignores it;
	// MySQL treats it as the database name.
	Schema string

	// Table is the bare target table name.
	Table string
}

// ErrBatchBroken signals that a row failure left the load transaction
// unusable, so the remaining rows cannot be attempted. The loader treats it
// as fatal; an ordinary row failure keeps the batch alive.
var ErrBatchBroken = errors.New("storage: load transaction broken")

// Repository is the write contract for one pipeline run against one target
// table. The sequence is: Exec for DDL, Begin, Insert per row, Commit, Count.
// Implementations are not safe for concurrent use; callers issue every
// operation from a single goroutine.
type Repository interface {
	// Exec runs a standalone statement (typically DDL) outside the load
	// transaction.
	Exec(ctx context.Context, sql string) error

	// Begin opens the single load transaction.
	Begin(ctx context.Context) error

	// Insert adds one row, aligned with DataColumns, inside the open
	// transaction. A row that the database rejects returns an error but
	// must leave the transaction usable for subsequent rows; when the
	// backend cannot recover the transaction it returns an error wrapping
	// ErrBatchBroken.
	Insert(ctx context.Context, args []any) error

	// Commit commits the load transaction.
	Commit(ctx context.Context) error

	// Count returns the number of rows currently in the target table.
	Count(ctx context.Context) (int64, error)

	// Close releases the connection. Safe to call after a failed Begin.
	Close()
}

// Factory builds a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under kind. Re-registering replaces the
// previous factory, which tests use to stub backends. Called from backend
// packages' init functions.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// New opens a Repository for cfg.Kind using the registered factory.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	fn, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// ListKinds returns the registered backend kinds, sorted, as a snapshot copy.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
