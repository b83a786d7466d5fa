package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"surveyetl/internal/schema"
)

// TestDataColumnsMatchSubmission pins the insert contract: the loader binds
// schema.Submission.Values() positionally to DataColumns, so both sides must
// list the same columns in the same order.
func TestDataColumnsMatchSubmission(t *testing.T) {
	t.Parallel()

	cols := DataColumns()
	want := schema.Columns()
	if len(cols) != len(want) {
		t.Fatalf("DataColumns has %d entries, schema.Columns has %d", len(cols), len(want))
	}
	for i := range cols {
		if cols[i] != want[i] {
			t.Fatalf("column %d: storage=%q schema=%q", i, cols[i], want[i])
		}
	}

	vals := (schema.Submission{}).Values()
	if len(vals) != len(cols) {
		t.Fatalf("Submission.Values has %d entries for %d columns", len(vals), len(cols))
	}
}

func TestTargetColumnsShape(t *testing.T) {
	t.Parallel()

	cols := TargetColumns()
	if len(cols) != 12 {
		t.Fatalf("len(TargetColumns)=%d want 12", len(cols))
	}
	if cols[0].Name != "id" || !cols[0].PrimaryKey {
		t.Fatalf("first column=%+v want primary key id", cols[0])
	}
	last := cols[len(cols)-1]
	if last.Name != "created_at" || last.Default == "" {
		t.Fatalf("last column=%+v want defaulted created_at", last)
	}
	for _, c := range cols[1:] {
		if !c.Nullable {
			t.Fatalf("column %q must be nullable so a sparse answer cannot block its row", c.Name)
		}
		if c.PrimaryKey {
			t.Fatalf("column %q unexpectedly marked primary key", c.Name)
		}
	}

	// The returned slice is a copy.
	cols[3].Name = "scribbled"
	if TargetColumns()[3].Name == "scribbled" {
		t.Fatal("TargetColumns leaked its backing array")
	}
}

func TestReplaceTarget_Dispatch(t *testing.T) {
	t.Parallel()

	var got Config
	RegisterDDL("fake-ddl", func(ctx context.Context, repo Repository, cfg Config) error {
		got = cfg
		return nil
	})

	cfg := Config{Kind: "fake-ddl", Schema: "health_survey", Table: "survey_data"}
	if err := ReplaceTarget(context.Background(), cfg, nopRepo{}); err != nil {
		t.Fatalf("ReplaceTarget: %v", err)
	}
	if got != cfg {
		t.Fatalf("bootstrapper saw cfg=%+v want %+v", got, cfg)
	}
}

func TestReplaceTarget_UnknownKind(t *testing.T) {
	t.Parallel()

	err := ReplaceTarget(context.Background(), Config{Kind: "nope"}, nopRepo{})
	if err == nil || !strings.Contains(err.Error(), `no DDL bootstrapper registered for storage.kind="nope"`) {
		t.Fatalf("err=%v want unregistered kind error", err)
	}
}

func TestReplaceTarget_BootstrapperErrorSurfaces(t *testing.T) {
	t.Parallel()

	boom := errors.New("create table denied")
	RegisterDDL("fake-ddl-err", func(ctx context.Context, repo Repository, cfg Config) error {
		return boom
	})

	err := ReplaceTarget(context.Background(), Config{Kind: "fake-ddl-err"}, nopRepo{})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v want bootstrapper error", err)
	}
}
