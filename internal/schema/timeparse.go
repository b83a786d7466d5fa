package schema

import (
	"strings"
	"time"
)

// submissionLayouts are tried in order when parsing submission timestamps.
// KoboToolbox exports RFC 3339 with a zone offset; the remaining layouts
// cover exports that went through a spreadsheet round trip.
var submissionLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"02.01.2006",
}

// ParseSubmissionTime leniently parses the textual value of a submission
// timestamp field. It reports false for empty or unparseable input; callers
// store such values as absent rather than failing the row.
func ParseSubmissionTime(s string) (time.Time, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range submissionLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
