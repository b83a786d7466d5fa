// This file implements the row loading loop shared by every backend: one
// transaction per run, per-row fault isolation, a progress line as rows land,
// and a post-commit count check against the target table.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// DefaultErrorSamples is how many row failures the run summary shows
// verbatim when Options does not say otherwise.
const DefaultErrorSamples = 3

// Row is one destination row staged for loading. Line is the 1-based source
// line it came from, with the header on line 1. A non-nil Err marks a row
// that failed upstream; the loader counts it as failed without attempting an
// insert.
type Row struct {
	Line int
	Args []any
	Err  error
}

// Options tunes LoadRows. ProgressEvery logs a progress line after every N
// inserted rows (0 disables). ErrorSamples caps the verbatim failures kept
// in the Report; zero selects DefaultErrorSamples, negative keeps none.
type Options struct {
	ProgressEvery int
	ErrorSamples  int
}

// Report summarizes one load.
type Report struct {
	Attempted int
	Inserted  int
	Failed    int

	// Errors holds the first ErrorSamples row failures, verbatim.
	Errors []string

	// Committed is true once the load transaction committed; rows are not
	// visible to readers before that.
	Committed bool

	// Count is the table count observed after commit, and Verified reports
	// whether it matched Inserted. VerifyErr is set when the count query
	// itself failed; the load still succeeded.
	Count     int64
	Verified  bool
	VerifyErr error
}

// errSample keeps the first limit failure messages verbatim plus a running
// total, so a run with thousands of bad rows stays summarizable.
type errSample struct {
	limit int
	count int
	first []string
}

// add records a failure and reports whether it was kept verbatim.
func (s *errSample) add(msg string) bool {
	s.count++
	if len(s.first) < s.limit {
		s.first = append(s.first, msg)
		return true
	}
	return false
}

// LoadRows drives one full-replace load: Begin, Insert per row, Commit,
// Count. A row the database rejects is recorded and skipped; the rest of the
// batch proceeds. Three conditions abort the run with an error: Begin or
// Commit failing, an insert failure that broke the transaction
// (ErrBatchBroken), and context cancellation. On success the returned error
// is nil even when individual rows failed; the Report carries the tallies.
func LoadRows(ctx context.Context, repo Repository, rows []Row, opts Options) (report Report, err error) {
	if opts.ErrorSamples == 0 {
		opts.ErrorSamples = DefaultErrorSamples
	} else if opts.ErrorSamples < 0 {
		opts.ErrorSamples = 0
	}

	report = Report{Attempted: len(rows)}
	errs := &errSample{limit: opts.ErrorSamples}
	defer func() { report.Errors = errs.first }()

	if err := repo.Begin(ctx); err != nil {
		return report, fmt.Errorf("begin load: %w", err)
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if row.Err != nil {
			report.Failed++
			if msg := fmt.Sprintf("line %d: %v", row.Line, row.Err); errs.add(msg) {
				log.Printf("loader: row failed: %s", msg)
			}
			continue
		}

		if err := repo.Insert(ctx, row.Args); err != nil {
			report.Failed++
			if msg := fmt.Sprintf("line %d: %v", row.Line, err); errs.add(msg) {
				log.Printf("loader: row failed: %s", msg)
			}
			if errors.Is(err, ErrBatchBroken) {
				return report, fmt.Errorf("line %d: %w", row.Line, err)
			}
			continue
		}

		report.Inserted++
		if opts.ProgressEvery > 0 && report.Inserted%opts.ProgressEvery == 0 {
			log.Printf("loader: inserted=%d attempted=%d failed=%d",
				report.Inserted, report.Attempted, report.Failed)
		}
	}

	if err := repo.Commit(ctx); err != nil {
		return report, fmt.Errorf("commit load: %w", err)
	}
	report.Committed = true

	n, err := repo.Count(ctx)
	if err != nil {
		report.VerifyErr = err
		log.Printf("loader: count verification failed: %v", err)
		return report, nil
	}
	report.Count = n
	report.Verified = n == int64(report.Inserted)
	if !report.Verified {
		log.Printf("loader: verification mismatch table_count=%d inserted=%d", n, report.Inserted)
	}
	return report, nil
}
