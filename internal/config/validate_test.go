package config

import (
	"strings"
	"testing"
	"time"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

// valid returns a Config that passes Validate with no findings; tests mutate
// one aspect at a time.
func valid() Config {
	return Config{
		Job: "survey_etl",
		Source: Source{
			Kind: "http",
		},
		Export: Export{
			URL:       "https://kobo.example.org/exports/1.csv",
			Username:  "kobo_user",
			Password:  "secret",
			Delimiter: ';',
			Timeout:   60 * time.Second,
		},
		Storage: Storage{
			Kind:   "postgres",
			DSN:    "postgres://etl@localhost:5432/survey",
			Schema: "health_survey",
			Table:  "survey_data",
		},
		Loader: Loader{
			ProgressEvery: 10,
			ErrorSamples:  3,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()

	if issues := Validate(valid()); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestValidate_MissingJob(t *testing.T) {
	t.Parallel()

	c := valid()
	c.Job = "  "
	if !hasIssue(t, Validate(c), SeverityError, "job", "job must not be empty") {
		t.Fatalf("expected SeverityError for job; got %+v", Validate(c))
	}
}

func TestValidate_HTTPSourceNeedsURL(t *testing.T) {
	t.Parallel()

	c := valid()
	c.Export.URL = ""
	if !hasIssue(t, Validate(c), SeverityError, "export.url", "KOBO_CSV_URL") {
		t.Fatalf("expected SeverityError for export.url; got %+v", Validate(c))
	}
}

func TestValidate_FileSourceNeedsPath(t *testing.T) {
	t.Parallel()

	c := valid()
	c.Source = Source{Kind: "file"}
	// A file source does not need the export endpoint at all.
	c.Export.URL = ""
	issues := Validate(c)
	if !hasIssue(t, issues, SeverityError, "source.path", "non-empty path") {
		t.Fatalf("expected SeverityError for source.path; got %+v", issues)
	}
	if hasIssue(t, issues, SeverityError, "export.url", "") {
		t.Fatalf("file source must not require export.url; got %+v", issues)
	}
}

func TestValidate_UnknownSourceKind(t *testing.T) {
	t.Parallel()

	c := valid()
	c.Source.Kind = "ftp"
	if !hasIssue(t, Validate(c), SeverityError, "source.kind", "unknown source kind") {
		t.Fatalf("expected SeverityError for source.kind; got %+v", Validate(c))
	}
}

func TestValidate_UsernameWithoutPassword(t *testing.T) {
	t.Parallel()

	c := valid()
	c.Export.Password = ""
	if !hasIssue(t, Validate(c), SeverityWarning, "export.password", "KOBO_PASSWORD is empty") {
		t.Fatalf("expected SeverityWarning for export.password; got %+v", Validate(c))
	}
}

func TestValidate_StorageIssues(t *testing.T) {
	t.Parallel()

	c := valid()
	c.Storage.DSN = ""
	c.Storage.Table = "health_survey.survey_data"
	issues := Validate(c)

	if !hasIssue(t, issues, SeverityError, "storage.dsn", "DATABASE_URL") {
		t.Fatalf("expected SeverityError for storage.dsn; got %+v", issues)
	}
	if !hasIssue(t, issues, SeverityWarning, "storage.table", "contains a dot") {
		t.Fatalf("expected SeverityWarning for dotted table; got %+v", issues)
	}
}

func TestValidate_UnknownStorageKindIsWarning(t *testing.T) {
	t.Parallel()

	c := valid()
	c.Storage.Kind = "oracle"
	issues := Validate(c)
	if !hasIssue(t, issues, SeverityWarning, "storage.kind", "unknown storage kind") {
		t.Fatalf("expected SeverityWarning for storage.kind; got %+v", issues)
	}
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			t.Fatalf("unknown storage kind must not be a hard error here; got %+v", issues)
		}
	}
}

func TestValidate_SQLiteAllowsEmptySchema(t *testing.T) {
	t.Parallel()

	c := valid()
	c.Storage.Kind = "sqlite"
	c.Storage.DSN = "file:out.db"
	c.Storage.Schema = ""
	if issues := Validate(c); len(issues) != 0 {
		t.Fatalf("sqlite with empty schema should validate clean; got %+v", issues)
	}
}

func TestValidate_LoaderBounds(t *testing.T) {
	t.Parallel()

	c := valid()
	c.Loader.ProgressEvery = -1
	c.Loader.ErrorSamples = -2
	issues := Validate(c)

	if !hasIssue(t, issues, SeverityError, "loader.progress_every", "must not be negative") {
		t.Fatalf("expected SeverityError for loader.progress_every; got %+v", issues)
	}
	if !hasIssue(t, issues, SeverityError, "loader.error_samples", "must not be negative") {
		t.Fatalf("expected SeverityError for loader.error_samples; got %+v", issues)
	}

	c = valid()
	c.Loader.ProgressEvery = 0
	if !hasIssue(t, Validate(c), SeverityWarning, "loader.progress_every", "disables progress logging") {
		t.Fatalf("expected SeverityWarning for progress_every=0; got %+v", Validate(c))
	}
}

func TestValidate_MetricsBackend(t *testing.T) {
	t.Parallel()

	c := valid()
	c.Metrics.Backend = "graphite"
	if !hasIssue(t, Validate(c), SeverityWarning, "metrics.backend", "unknown metrics backend") {
		t.Fatalf("expected SeverityWarning for metrics.backend; got %+v", Validate(c))
	}

	c = valid()
	c.Metrics.Backend = "datadog"
	if !hasIssue(t, Validate(c), SeverityWarning, "metrics.dogstatsd_addr", "DOGSTATSD_ADDR is empty") {
		t.Fatalf("expected SeverityWarning for metrics.dogstatsd_addr; got %+v", Validate(c))
	}
}

// Issue.Error keeps the severity, path, and message readable when an Issue
// travels as a plain error.
func TestIssueError(t *testing.T) {
	t.Parallel()

	iss := Issue{Severity: SeverityError, Path: "storage.dsn", Message: "DATABASE_URL must not be empty"}
	got := iss.Error()
	for _, want := range []string{"error", "storage.dsn", "DATABASE_URL"} {
		if !strings.Contains(got, want) {
			t.Fatalf("Issue.Error()=%q missing %q", got, want)
		}
	}
}
