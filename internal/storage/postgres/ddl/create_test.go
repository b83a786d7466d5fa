package ddl

import (
	"strings"
	"testing"
)

func TestStatements(t *testing.T) {
	t.Parallel()

	stmts, err := Statements("health_survey", "survey_data")
	if err != nil {
		t.Fatalf("Statements: %v", err)
	}
	if len(stmts) != 3 {
		t.Fatalf("len(stmts)=%d want 3:\n%s", len(stmts), strings.Join(stmts, "\n"))
	}

	if got, want := stmts[0], `CREATE SCHEMA IF NOT EXISTS "health_survey"`; got != want {
		t.Fatalf("schema stmt=%q want %q", got, want)
	}
	if got, want := stmts[1], `DROP TABLE IF EXISTS "health_survey"."survey_data"`; got != want {
		t.Fatalf("drop stmt=%q want %q", got, want)
	}

	want := `CREATE TABLE "health_survey"."survey_data" (
  "id" SERIAL NOT NULL,
  "submission_start" TIMESTAMP,
  "submission_end" TIMESTAMP,
  "age_group" VARCHAR(100),
  "gender" VARCHAR(50),
  "vaccination_status" VARCHAR(100),
  "healthcare_visits_count" INTEGER,
  "exercise_frequency" VARCHAR(100),
  "water_source" VARCHAR(100),
  "sleep_hours" DECIMAL(5,2),
  "health_insurance" VARCHAR(50),
  "created_at" TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY ("id")
);`
	if stmts[2] != want {
		t.Fatalf("create stmt mismatch:\ngot:\n%s\nwant:\n%s", stmts[2], want)
	}
}

func TestStatements_NoSchema(t *testing.T) {
	t.Parallel()

	stmts, err := Statements("", "survey_data")
	if err != nil {
		t.Fatalf("Statements: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("len(stmts)=%d want 2 without a schema", len(stmts))
	}
	if got, want := stmts[0], `DROP TABLE IF EXISTS "survey_data"`; got != want {
		t.Fatalf("drop stmt=%q want %q", got, want)
	}
	if !strings.HasPrefix(stmts[1], `CREATE TABLE "survey_data" (`) {
		t.Fatalf("create stmt=%q want unqualified table", stmts[1])
	}
}

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"survey_data", `"survey_data"`},
		{`odd"name`, `"odd""name"`},
		{"Mixed Case", `"Mixed Case"`},
	}
	for _, tc := range cases {
		if got := quoteIdent(tc.in); got != tc.want {
			t.Fatalf("quoteIdent(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestMapType(t *testing.T) {
	t.Parallel()

	cases := []struct{ kind, want string }{
		{"id", "SERIAL"},
		{"integer", "INTEGER"},
		{"timestamp", "TIMESTAMP"},
		{"varchar(100)", "VARCHAR(100)"},
		{"varchar(50)", "VARCHAR(50)"},
		{"decimal(5,2)", "DECIMAL(5,2)"},
		{" TIMESTAMP ", "TIMESTAMP"},
		{"mystery", "TEXT"},
	}
	for _, tc := range cases {
		if got := MapType(tc.kind); got != tc.want {
			t.Fatalf("MapType(%q)=%q want %q", tc.kind, got, tc.want)
		}
	}
}
