// Package csv decodes delimited survey exports into records keyed by the
// raw header names. Decoding is tolerant: individual malformed lines are
// skipped and counted, never fatal. Only an unreadable header aborts a
// decode, because without a header no record can be keyed at all.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
)

// Options configures the decoder. Zero values get sensible defaults.
type Options struct {
	// Comma is the field delimiter. When zero, ';' is used; survey exports
	// are semicolon-delimited.
	Comma rune

	// Verbose logs every skipped line instead of only the first few.
	Verbose bool
}

// Record holds one data row keyed by raw header name. Values are kept
// verbatim; empty cells are empty strings. Column order lives in the
// enclosing Table, not in the record.
type Record map[string]string

// Table is the decoded form of one export.
type Table struct {
	// Fields are the raw header names in source column order, byte-preserved
	// apart from a stripped UTF-8 BOM on the first cell.
	Fields []string

	// Rows holds the decoded records in source order.
	Rows []Record

	// Lines holds the 1-based source line of each record in Rows, counting
	// the header as line 1. Skipped lines leave gaps, so error reports can
	// name the line an operator will find in the raw export.
	Lines []int

	// Skipped counts data lines dropped for parse errors or a field count
	// different from the header.
	Skipped int
}

// skipLogLimit caps per-line skip logging unless Options.Verbose is set.
const skipLogLimit = 10

// Decoder decodes delimited text according to Options. A Decoder is
// stateless and safe to reuse across inputs.
type Decoder struct{ opt Options }

// NewDecoder constructs a Decoder with the provided Options.
func NewDecoder(opt Options) *Decoder {
	if opt.Comma == 0 {
		opt.Comma = ';'
	}
	return &Decoder{opt: opt}
}

// Decode consumes the input and returns the decoded table.
//
// The first row is the header. Every later line either decodes into exactly
// one record or is skipped and counted: quoting errors and rows whose field
// count differs from the header are soft failures. A table with zero data
// rows is a valid result.
func (d *Decoder) Decode(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = d.opt.Comma
	// Width is enforced against the header after each read so that short and
	// long rows are skipped instead of aborting the reader.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: empty input, no header row")
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	header = StripHeaderBOM(header)

	t := &Table{Fields: header}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			d.logSkip(t.Skipped, "csv: skipping line %d: %v", line, err)
			t.Skipped++
			continue
		}
		if len(row) != len(header) {
			d.logSkip(t.Skipped, "csv: skipping line %d: %d fields, header has %d", line, len(row), len(header))
			t.Skipped++
			continue
		}

		rec := make(Record, len(header))
		for i, name := range header {
			rec[name] = row[i]
		}
		t.Rows = append(t.Rows, rec)
		t.Lines = append(t.Lines, line)
	}

	return t, nil
}

func (d *Decoder) logSkip(skippedSoFar int, format string, args ...any) {
	if d.opt.Verbose || skippedSoFar < skipLogLimit {
		log.Printf(format, args...)
	}
}
