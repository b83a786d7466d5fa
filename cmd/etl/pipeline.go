// This file drives one pipeline run end to end: open the export source,
// decode, canonicalize and map columns, build typed rows, and hand them to
// the storage loader. The CLI layer stays storage-agnostic; backends hook in
// through the factory registry.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"surveyetl/internal/config"
	"surveyetl/internal/datasource"
	"surveyetl/internal/datasource/file"
	"surveyetl/internal/datasource/httpds"
	"surveyetl/internal/metrics"
	"surveyetl/internal/parser/csv"
	"surveyetl/internal/schema"
	"surveyetl/internal/storage"
	"surveyetl/internal/transformer"
)

// fetchError marks a failure to obtain a decodable export: credentials,
// network, a non-200 status, or a header that cannot be read. Storage has
// not been touched when one is returned, so a scheduler may simply retry.
type fetchError struct{ err error }

func (e *fetchError) Error() string { return e.err.Error() }
func (e *fetchError) Unwrap() error { return e.err }

// Function variables used to introduce test seams. In production they point
// at the real implementations.
var (
	newRepositoryFn = storage.New
	openSourceFn    = openSource
)

// run executes one full fetch, decode, map, transform, load cycle. Skipped
// source lines and rejected rows do not fail the run; the error return is
// reserved for conditions that left no loaded table behind.
func run(ctx context.Context, cfg config.Config, runID string, dryRun, verbose bool) error {
	start := time.Now()

	rc, err := openSourceFn(ctx, cfg)
	metrics.RecordStep(cfg.Job, "fetch", err, time.Since(start))
	if err != nil {
		return &fetchError{fmt.Errorf("fetch export: %w", err)}
	}

	decodeStart := time.Now()
	dec := csv.NewDecoder(csv.Options{Comma: cfg.Export.Delimiter, Verbose: verbose})
	tbl, err := dec.Decode(rc)
	closeErr := rc.Close()
	metrics.RecordStep(cfg.Job, "decode", err, time.Since(decodeStart))
	if err != nil {
		return &fetchError{fmt.Errorf("decode export: %w", err)}
	}
	if closeErr != nil {
		log.Printf("fetch: close export stream: %v", closeErr)
	}
	metrics.RecordRow(cfg.Job, "decoded", int64(len(tbl.Rows)))
	metrics.RecordRow(cfg.Job, "skipped", int64(tbl.Skipped))
	log.Printf("decode: rows=%d skipped=%d columns=%d", len(tbl.Rows), tbl.Skipped, len(tbl.Fields))

	ct := schema.Canonicalize(tbl)
	mapping := schema.ResolveMapping(ct.Fields)
	logMapping(mapping)

	if dryRun {
		log.Printf("dry run: mapping resolved, stopping before storage")
		return nil
	}

	transformStart := time.Now()
	rows := make([]storage.Row, len(ct.Rows))
	for i, rec := range ct.Rows {
		sub := transformer.Build(rec, mapping)
		rows[i] = storage.Row{Line: ct.Lines[i], Args: sub.Values()}
	}
	metrics.RecordStep(cfg.Job, "transform", nil, time.Since(transformStart))

	report, err := load(ctx, cfg, rows)
	if err != nil {
		return err
	}

	log.Printf("run %s: attempted=%d inserted=%d failed=%d verified=%t duration=%s",
		runID, report.Attempted, report.Inserted, report.Failed, report.Verified,
		time.Since(start).Truncate(time.Millisecond))
	return nil
}

// load opens the repository, recreates the target table, and drives the row
// loader. The load step timing covers connect, DDL, and rows together.
func load(ctx context.Context, cfg config.Config, rows []storage.Row) (storage.Report, error) {
	storeCfg := storage.Config{
		Kind:   cfg.Storage.Kind,
		DSN:    cfg.Storage.DSN,
		Schema: cfg.Storage.Schema,
		Table:  cfg.Storage.Table,
	}

	start := time.Now()
	report, err := loadInto(ctx, storeCfg, cfg.Loader, rows)
	metrics.RecordStep(cfg.Job, "load", err, time.Since(start))
	metrics.RecordRow(cfg.Job, "inserted", int64(report.Inserted))
	metrics.RecordRow(cfg.Job, "failed", int64(report.Failed))
	return report, err
}

func loadInto(ctx context.Context, storeCfg storage.Config, l config.Loader, rows []storage.Row) (storage.Report, error) {
	repo, err := newRepositoryFn(ctx, storeCfg)
	if err != nil {
		return storage.Report{}, fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	if err := storage.ReplaceTarget(ctx, storeCfg, repo); err != nil {
		return storage.Report{}, fmt.Errorf("replace target table: %w", err)
	}

	return storage.LoadRows(ctx, repo, rows, storage.Options{
		ProgressEvery: l.ProgressEvery,
		ErrorSamples:  l.ErrorSamples,
	})
}

// logMapping prints one line per destination role so every run records how
// the export's columns were bound. Unbound roles load as column defaults.
func logMapping(m schema.FieldMapping) {
	unbound := 0
	for _, role := range schema.Roles {
		if f, ok := m.Field(role); ok {
			log.Printf("mapping: %s <- %q", role, f)
			continue
		}
		unbound++
		log.Printf("mapping: %s unbound", role)
	}
	if unbound > 0 {
		log.Printf("mapping: %d of %d roles unbound; their columns load as defaults",
			unbound, len(schema.Roles))
	}
}

// openSource opens the configured export source.
func openSource(ctx context.Context, cfg config.Config) (io.ReadCloser, error) {
	var src datasource.Source
	switch cfg.Source.Kind {
	case "http":
		src = httpds.NewExportSource(httpds.ExportConfig{
			URL:                cfg.Export.URL,
			Username:           cfg.Export.Username,
			Password:           cfg.Export.Password,
			Timeout:            cfg.Export.Timeout,
			InsecureSkipVerify: cfg.Export.InsecureSkipVerify,
		})
	case "file":
		src = file.NewLocal(cfg.Source.Path)
	default:
		return nil, fmt.Errorf("unsupported source.kind=%s", cfg.Source.Kind)
	}
	return src.Open(ctx)
}
