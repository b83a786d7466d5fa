// Package schema defines the survey destination model: canonical field
// names, the fixed set of logical roles, the keyword rules that bind roles
// to columns, and the typed destination row.
//
// Everything in this package is pure and deterministic. The same export
// decoded twice yields the same canonical table, the same mapping, and the
// same rows, which is what makes reruns of the pipeline reproducible.
package schema

import (
	"log"
	"strings"

	"surveyetl/internal/parser/csv"
)

// CanonicalName rewrites a raw export header into its canonical field name.
//
// The rewrite chain is fixed: surrounding whitespace is trimmed, then every
// space, slash, and hyphen becomes an underscore, every question mark is
// removed, and every ampersand becomes "and". Character case is preserved.
// The function is total and idempotent; applying it to an already-canonical
// name returns the name unchanged.
func CanonicalName(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "?", "")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "&", "and")
	return s
}

// Record is one submission keyed by canonical field name. Missing cells are
// empty strings.
type Record map[string]string

// CanonicalTable is the normalized form of a decoded export: the canonical
// field names in source column order, the re-keyed records, and the source
// line of each record carried over from the decode.
type CanonicalTable struct {
	Fields []string
	Rows   []Record
	Lines  []int
}

// Canonicalize rewrites every field name of a decoded table through
// CanonicalName and re-keys each record accordingly.
//
// When two raw names collide onto one canonical name the later column wins,
// both in the field list and in the records; the collision is logged once
// per canonical name.
func Canonicalize(t *csv.Table) *CanonicalTable {
	fields := make([]string, 0, len(t.Fields))
	seen := make(map[string]int, len(t.Fields))
	for _, raw := range t.Fields {
		name := CanonicalName(raw)
		if at, dup := seen[name]; dup {
			log.Printf("schema: canonical name collision on %q; keeping the later column", name)
			fields[at] = name
			continue
		}
		seen[name] = len(fields)
		fields = append(fields, name)
	}

	rows := make([]Record, 0, len(t.Rows))
	for _, raw := range t.Rows {
		rec := make(Record, len(t.Fields))
		// Walk source column order so that on a collision the later
		// column's value deterministically overwrites the earlier one.
		for _, k := range t.Fields {
			if v, ok := raw[k]; ok {
				rec[CanonicalName(k)] = v
			}
		}
		rows = append(rows, rec)
	}

	lines := make([]int, len(t.Lines))
	copy(lines, t.Lines)
	return &CanonicalTable{Fields: fields, Rows: rows, Lines: lines}
}
