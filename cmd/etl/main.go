// Command etl runs one survey export through the full pipeline: fetch the
// CSV export, decode it, map columns onto the destination schema, and load
// the typed rows into the configured database, replacing the previous run's
// table. It is built to run as a one-shot job under cron or CI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"surveyetl/internal/config"
	"surveyetl/internal/metrics"
	"surveyetl/internal/metrics/datadog"
	"surveyetl/internal/metrics/prompush"

	// Register every storage backend with the factory; the config decides
	// which one a run actually uses.
	_ "surveyetl/internal/storage/all"
)

// Exit codes, so a scheduler can tell source trouble from storage trouble.
const (
	exitOK    = 0
	exitFetch = 1
	exitFatal = 2
)

func main() {
	var (
		sourceFlag  string
		fileFlag    string
		storageFlag string
		tableFlag   string
		metricsFlag string
		dryRun      bool
		verbose     bool
	)

	flag.StringVar(&sourceFlag, "source", "", "export source: http or file (default http)")
	flag.StringVar(&fileFlag, "file", "", "path to a saved export; implies -source file")
	flag.StringVar(&storageFlag, "storage", "", "storage backend override: postgres, mysql, mssql, sqlite")
	flag.StringVar(&tableFlag, "table", "", "target table override")
	flag.StringVar(&metricsFlag, "metrics", "", "metrics backend: none, prometheus, datadog (overrides METRICS_BACKEND)")
	flag.BoolVar(&dryRun, "dry-run", false, "resolve and log the column mapping, then stop before touching storage")
	flag.BoolVar(&verbose, "v", false, "log every skipped line instead of only the first few")
	flag.Parse()

	// Seed the environment from .env when present; existing variables win.
	if err := godotenv.Load(); err == nil {
		log.Printf("config: loaded .env")
	}

	cfg := config.FromEnv()
	applyFlags(&cfg, sourceFlag, fileFlag, storageFlag, tableFlag)

	issues := config.Validate(cfg)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		fatalf(exitFatal, "configuration is invalid; fix the errors above and rerun")
	}

	runID := uuid.New().String()
	initMetrics(cfg, metricsFlag, runID, verbose)

	ctx := context.Background()
	start := time.Now()
	log.Printf("run %s: source=%s storage=%s target=%s.%s",
		runID, cfg.Source.Kind, cfg.Storage.Kind, cfg.Storage.Schema, cfg.Storage.Table)

	metrics.RecordRun(cfg.Job)
	err := run(ctx, cfg, runID, dryRun, verbose)
	metrics.RecordStep(cfg.Job, "run", err, time.Since(start))
	if ferr := metrics.Flush(); ferr != nil {
		log.Printf("metrics: flush error: %v", ferr)
	}

	if err != nil {
		log.Printf("run %s: failed: %v", runID, err)
		var fe *fetchError
		if errors.As(err, &fe) {
			log.Printf("run %s: no data was loaded; check the export URL, credentials, and network reachability", runID)
		}
		os.Exit(exitCodeFor(err))
	}
	log.Printf("run %s: completed in %s", runID, time.Since(start).Truncate(time.Millisecond))
}

// applyFlags folds the command-line overrides into the environment-derived
// config. A bare -file selects the file source; an explicit -source wins.
func applyFlags(cfg *config.Config, source, file, storageKind, table string) {
	if file != "" {
		cfg.Source.Kind = "file"
		cfg.Source.Path = file
	}
	if source != "" {
		cfg.Source.Kind = source
	}
	if storageKind != "" {
		cfg.Storage.Kind = storageKind
	}
	if table != "" {
		cfg.Storage.Table = table
	}
}

// initMetrics wires the selected metrics backend: flag, then environment,
// then the nop default. A backend that fails to initialize logs the reason
// and leaves the nop backend in place rather than failing the run.
func initMetrics(cfg config.Config, flg, runID string, verbose bool) {
	backend := flg
	if backend == "" {
		backend = cfg.Metrics.Backend
	}

	switch backend {
	case "prometheus", "pushgateway":
		gwURL := cfg.Metrics.PushgatewayURL
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(cfg.Job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=pushgateway url=%s job=%s", gwURL, cfg.Job)
		metrics.SetBackend(b)

	case "datadog":
		addr := cfg.Metrics.DogstatsdAddr
		if addr == "" {
			addr = "localhost:8125"
		}
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       addr,
			GlobalTags: []string{"job:" + cfg.Job, "run_id:" + runID},
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=datadog addr=%s job=%s", addr, cfg.Job)
		metrics.SetBackend(b)

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled")
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backend)
	}
}

// exitCodeFor maps a run failure onto the exit code taxonomy: fetch and
// decode trouble is exitFetch, everything else exitFatal.
func exitCodeFor(err error) int {
	var fe *fetchError
	if errors.As(err, &fe) {
		return exitFetch
	}
	return exitFatal
}

func fatalf(code int, format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(code)
}
