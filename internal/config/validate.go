// This file adds a lightweight linter/validator for Config values. It
// performs static checks over an assembled Config and returns a list of
// issues (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "storage.kind"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation of a Config. It does not mutate the
// config; callers decide whether warnings block the run.
func Validate(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics and identifies runs",
		})
	}
	issues = append(issues, validateSource(c.Source, c.Export)...)
	issues = append(issues, validateStorage(c.Storage)...)
	issues = append(issues, validateLoader(c.Loader)...)
	issues = append(issues, validateMetrics(c.Metrics)...)

	return issues
}

func validateSource(s Source, e Export) []Issue {
	var issues []Issue

	switch s.Kind {
	case "http":
		if strings.TrimSpace(e.URL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "export.url",
				Message:  "KOBO_CSV_URL must not be empty for the http source",
			})
		}
		if e.Username != "" && e.Password == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "export.password",
				Message:  "KOBO_USERNAME is set but KOBO_PASSWORD is empty; the export endpoint will likely reject the request",
			})
		}
		if e.Timeout <= 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "export.timeout",
				Message:  "HTTP_TIMEOUT_SECONDS must be positive",
			})
		}
	case "file":
		if strings.TrimSpace(s.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.path",
				Message:  "file source requires a non-empty path",
			})
		}
	case "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  "source.kind must not be empty",
		})
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unknown source kind %q; expected http or file", s.Kind),
		})
	}

	switch e.Delimiter {
	case ';', ',', '\t', '|':
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "export.delimiter",
			Message:  fmt.Sprintf("unusual CSV delimiter %q; KoboToolbox exports use ';'", string(e.Delimiter)),
		})
	}

	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
		return issues
	}

	// Unknown kinds are warnings here; the storage registry is the source of
	// truth and fails hard with the list of registered backends.
	known := map[string]struct{}{
		"postgres": {},
		"mysql":    {},
		"mssql":    {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.dsn",
			Message:  "DATABASE_URL must not be empty",
		})
	}
	if strings.TrimSpace(s.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.table",
			Message:  "TARGET_TABLE must not be empty",
		})
	}
	if strings.Contains(s.Table, ".") {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.table",
			Message:  "TARGET_TABLE contains a dot; the namespace belongs in TARGET_SCHEMA",
		})
	}
	if strings.TrimSpace(s.Schema) == "" && s.Kind != "sqlite" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.schema",
			Message:  "TARGET_SCHEMA must not be empty",
		})
	}

	return issues
}

func validateLoader(l Loader) []Issue {
	var issues []Issue

	if l.ProgressEvery < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "loader.progress_every",
			Message:  "PROGRESS_EVERY must not be negative",
		})
	} else if l.ProgressEvery == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "loader.progress_every",
			Message:  "PROGRESS_EVERY=0 disables progress logging",
		})
	}
	if l.ErrorSamples < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "loader.error_samples",
			Message:  "ERROR_SAMPLES must not be negative",
		})
	}

	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue

	switch m.Backend {
	case "", "none", "pushgateway", "datadog":
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; metrics will be disabled", m.Backend),
		})
	}
	if m.Backend == "datadog" && strings.TrimSpace(m.DogstatsdAddr) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.dogstatsd_addr",
			Message:  "datadog backend selected but DOGSTATSD_ADDR is empty; the default localhost:8125 will be used",
		})
	}

	return issues
}
