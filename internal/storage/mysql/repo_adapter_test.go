package mysql

import (
	"context"
	"strings"
	"testing"

	"surveyetl/internal/storage"
)

// TestMySQLStorageRegistrationUsesNewRepositoryHook verifies that the
// "mysql" backend registered in init() builds repositories through the
// newRepository hook and that wrappedRepo propagates configuration and close
// behavior.
func TestMySQLStorageRegistrationUsesNewRepositoryHook(t *testing.T) {
	ctx := context.Background()

	origNewRepository := newRepository
	defer func() { newRepository = origNewRepository }()

	var (
		called   bool
		gotCfg   Config
		closed   bool
		fakeRepo = &Repository{}
	)
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		called = true
		gotCfg = cfg
		return fakeRepo, func() { closed = true }, nil
	}

	cfg := storage.Config{
		Kind:   "mysql",
		DSN:    "etl:secret@tcp(localhost:3306)/health_survey",
		Schema: "health_survey",
		Table:  "survey_data",
	}
	repo, err := storage.New(ctx, cfg)
	if err != nil {
		t.Fatalf("storage.New() error = %v, want nil", err)
	}

	if !called {
		t.Fatal("newRepository hook was not called")
	}
	if gotCfg.DSN != cfg.DSN || gotCfg.Schema != cfg.Schema || gotCfg.Table != cfg.Table {
		t.Fatalf("hook cfg=%+v want fields from %+v", gotCfg, cfg)
	}

	w, ok := repo.(*wrappedRepo)
	if !ok {
		t.Fatalf("storage.New() type = %T, want *wrappedRepo", repo)
	}
	if w.Repository != fakeRepo {
		t.Fatalf("wrappedRepo.Repository = %p, want %p", w.Repository, fakeRepo)
	}

	repo.Close()
	if !closed {
		t.Fatal("wrappedRepo.Close() did not invoke closeFn")
	}
}

// execRecorder implements storage.Repository and records Exec statements so
// the registered DDL bootstrapper can be observed without a database.
type execRecorder struct {
	stmts []string
}

func (r *execRecorder) Exec(ctx context.Context, sql string) error {
	r.stmts = append(r.stmts, sql)
	return nil
}
func (r *execRecorder) Begin(ctx context.Context) error              { return nil }
func (r *execRecorder) Insert(ctx context.Context, args []any) error { return nil }
func (r *execRecorder) Commit(ctx context.Context) error             { return nil }
func (r *execRecorder) Count(ctx context.Context) (int64, error)     { return 0, nil }
func (r *execRecorder) Close()                                       {}

func TestMySQLDDLBootstrapperRegistered(t *testing.T) {
	t.Parallel()

	rec := &execRecorder{}
	cfg := storage.Config{Kind: "mysql", Schema: "health_survey", Table: "survey_data"}
	if err := storage.ReplaceTarget(context.Background(), cfg, rec); err != nil {
		t.Fatalf("ReplaceTarget: %v", err)
	}

	if len(rec.stmts) != 3 {
		t.Fatalf("executed %d statements, want 3:\n%s", len(rec.stmts), strings.Join(rec.stmts, "\n"))
	}
	if !strings.HasPrefix(rec.stmts[0], "CREATE DATABASE IF NOT EXISTS") {
		t.Fatalf("stmts[0]=%q want database creation first", rec.stmts[0])
	}
	if !strings.HasPrefix(rec.stmts[1], "DROP TABLE IF EXISTS") {
		t.Fatalf("stmts[1]=%q want drop before create", rec.stmts[1])
	}
	if !strings.HasPrefix(rec.stmts[2], "CREATE TABLE") {
		t.Fatalf("stmts[2]=%q want create last", rec.stmts[2])
	}
}
