// Package probe analyzes a sampled prefix of a survey export. It decodes the
// sample with the same tolerant decoder the pipeline uses, pushes the headers
// through the same canonicalization and role resolution, and infers a value
// type per column. The output is the authoritative preview of how a real run
// would bind the export's columns.
package probe

import (
	"bytes"
	"unicode/utf8"

	"surveyetl/internal/parser/csv"
	"surveyetl/internal/schema"
)

// Column describes one header column of the sampled export.
type Column struct {
	// Name is the raw header as exported.
	Name string

	// Canonical is the field name after canonicalization.
	Canonical string

	// Type is the inferred value type: int, float, date, datetime, bool,
	// or text.
	Type string

	// Role is the logical role the column would bind to, empty when the
	// resolver leaves it unmapped. When one field serves several roles the
	// first role in destination column order is reported.
	Role schema.Role

	// Ident is a suggested SQL-safe identifier, filled only for columns that
	// bind no role. Bound columns already have a destination column name.
	Ident string
}

// Analysis is the result of probing one export sample.
type Analysis struct {
	Columns []Column

	// Rows is the number of data rows decoded from the sample.
	Rows int

	// Skipped is the number of malformed lines the decoder dropped.
	Skipped int
}

// Analyze decodes the sampled bytes and reports per-column findings. A
// byte-range sample usually ends mid-line, so everything after the last
// newline is discarded before decoding.
func Analyze(sample []byte, delim rune) (*Analysis, error) {
	if i := bytes.LastIndexByte(sample, '\n'); i > 0 {
		sample = sample[:i+1]
	}

	dec := csv.NewDecoder(csv.Options{Comma: delim})
	tbl, err := dec.Decode(bytes.NewReader(sample))
	if err != nil {
		return nil, err
	}

	canonical := make([]string, len(tbl.Fields))
	for i, f := range tbl.Fields {
		canonical[i] = schema.CanonicalName(f)
	}

	mapping := schema.ResolveMapping(canonical)
	roleByField := make(map[string]schema.Role, len(schema.Roles))
	for _, r := range schema.Roles {
		f, ok := mapping.Field(r)
		if !ok {
			continue
		}
		if _, taken := roleByField[f]; !taken {
			roleByField[f] = r
		}
	}

	cols := make([]Column, len(tbl.Fields))
	for i, raw := range tbl.Fields {
		c := Column{
			Name:      raw,
			Canonical: canonical[i],
			Type:      inferType(columnValues(tbl, raw)),
		}
		if role, bound := roleByField[canonical[i]]; bound {
			c.Role = role
		} else {
			c.Ident = suggestIdent(canonical[i])
		}
		cols[i] = c
	}

	return &Analysis{
		Columns: cols,
		Rows:    len(tbl.Rows),
		Skipped: tbl.Skipped,
	}, nil
}

// columnValues collects the sampled values of one raw header across all rows.
func columnValues(tbl *csv.Table, name string) []string {
	out := make([]string, 0, len(tbl.Rows))
	for _, rec := range tbl.Rows {
		out = append(out, rec[name])
	}
	return out
}

// DecodeDelimiter converts a user-supplied delimiter string into a single
// rune. Empty or undecodable input selects the semicolon used by survey
// exports; the literal "\t" selects a tab.
func DecodeDelimiter(s string) rune {
	if s == "" {
		return ';'
	}
	if s == `\t` {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ';'
	}
	return r
}
