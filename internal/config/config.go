// Package config defines the runtime configuration for the survey ETL. The
// pipeline runs as a one-shot job in cron or CI, so configuration comes from
// environment variables (optionally seeded from a .env file by the caller)
// rather than a config file, and every knob has a default that matches the
// production survey project.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults for the health survey project. TARGET_SCHEMA and TARGET_TABLE
// override them for other deployments.
const (
	DefaultSchema        = "health_survey"
	DefaultTable         = "survey_data"
	DefaultJob           = "survey_etl"
	DefaultTimeout       = 60 * time.Second
	DefaultDelimiter     = ';'
	DefaultProgressEvery = 10
	DefaultErrorSamples  = 3
)

// Config is the full runtime configuration for one pipeline run.
type Config struct {
	// Job names the run for metrics labeling and log correlation.
	Job string

	Source  Source
	Export  Export
	Storage Storage
	Loader  Loader
	Metrics Metrics
}

// Source selects where the export bytes come from. Kind "http" downloads
// from the export endpoint; kind "file" replays a saved export from disk.
type Source struct {
	Kind string
	Path string
}

// Export configures the survey export endpoint and the shape of its CSV.
type Export struct {
	URL      string
	Username string
	Password string

	// Delimiter is the CSV field separator; KoboToolbox exports use ';'.
	Delimiter rune

	// Timeout bounds the export download.
	Timeout time.Duration

	InsecureSkipVerify bool
}

// Storage selects the destination backend and the target table.
type Storage struct {
	// Kind selects a registered backend: postgres, mysql, mssql, sqlite.
	Kind string

	// DSN is the backend connection string (e.g. postgres://... for pgx).
	DSN string

	// Schema is the namespace holding the target table. Backends without
	// schemas (sqlite) ignore it; mysql treats it as the database name.
	Schema string

	// Table is the bare target table name, without schema qualification.
	Table string
}

// Loader tunes the row loading loop.
type Loader struct {
	// ProgressEvery logs progress after every N inserted rows; 0 disables.
	ProgressEvery int

	// ErrorSamples caps how many per-row failures are kept verbatim for the
	// run summary.
	ErrorSamples int
}

// Metrics selects an optional metrics backend.
type Metrics struct {
	Backend        string
	PushgatewayURL string
	DogstatsdAddr  string
}

// FromEnv assembles a Config from the environment. Malformed numeric values
// log a notice and fall back to the default rather than failing the run;
// Validate reports the problems an operator must fix.
func FromEnv() Config {
	return Config{
		Job: envStr("JOB_NAME", DefaultJob),
		Source: Source{
			Kind: "http",
		},
		Export: Export{
			URL:                envStr("KOBO_CSV_URL", ""),
			Username:           envStr("KOBO_USERNAME", ""),
			Password:           envStr("KOBO_PASSWORD", ""),
			Delimiter:          envDelimiter("CSV_DELIMITER", DefaultDelimiter),
			Timeout:            envSeconds("HTTP_TIMEOUT_SECONDS", DefaultTimeout),
			InsecureSkipVerify: envBool("KOBO_INSECURE_SKIP_VERIFY", false),
		},
		Storage: Storage{
			Kind:   envStr("STORAGE_KIND", "postgres"),
			DSN:    envStr("DATABASE_URL", ""),
			Schema: envStr("TARGET_SCHEMA", DefaultSchema),
			Table:  envStr("TARGET_TABLE", DefaultTable),
		},
		Loader: Loader{
			ProgressEvery: envInt("PROGRESS_EVERY", DefaultProgressEvery),
			ErrorSamples:  envInt("ERROR_SAMPLES", DefaultErrorSamples),
		},
		Metrics: Metrics{
			Backend:        envStr("METRICS_BACKEND", ""),
			PushgatewayURL: envStr("PUSHGATEWAY_URL", ""),
			DogstatsdAddr:  envStr("DOGSTATSD_ADDR", ""),
		},
	}
}

// envStr returns the value of key, or def when key is unset or blank.
// Values are returned verbatim; credentials may legitimately contain spaces.
func envStr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// envInt returns the integer value of key or def when unset or malformed.
func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		log.Printf("config: %s=%q is not an integer; using %d", key, v, def)
		return def
	}
	return n
}

// envSeconds reads key as a whole number of seconds.
func envSeconds(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		log.Printf("config: %s=%q is not a number of seconds; using %s", key, v, def)
		return def
	}
	return time.Duration(n) * time.Second
}

// envBool returns the boolean value of key or def when unset or malformed.
func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		log.Printf("config: %s=%q is not a boolean; using %t", key, v, def)
		return def
	}
	return b
}

// envDelimiter reads a single-character field separator. The literal "\t"
// selects a tab, which is otherwise awkward to put in an env file.
func envDelimiter(key string, def rune) rune {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	if v == `\t` {
		return '\t'
	}
	r := []rune(v)
	if len(r) != 1 {
		log.Printf("config: %s=%q must be a single character; using %q", key, v, string(def))
		return def
	}
	return r[0]
}
