package probe

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxIdentLen is PostgreSQL's identifier limit, the strictest of the
// supported backends.
const maxIdentLen = 63

// suggestIdent converts arbitrary header text into a lowercase ASCII
// identifier usable as a SQL column name:
//  1. lowercase
//  2. strip accents (NFD, drop combining marks, NFC)
//  3. keep [a-z0-9_]; turn space, dash, and dot runs into one underscore;
//     drop everything else
//  4. fall back to "col" when nothing survives
func suggestIdent(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_', r == ' ', r == '-', r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		}
	}

	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "col"
	}
	return truncateIdent(name)
}

// truncateIdent cuts an over-long identifier to maxIdentLen bytes, keeping
// the first 10 and the last 53 characters; header names tend to differ at
// the end, not the start.
func truncateIdent(s string) string {
	if len(s) <= maxIdentLen {
		return s
	}
	return s[:10] + s[len(s)-(maxIdentLen-10):]
}
