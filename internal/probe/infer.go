package probe

import (
	"strconv"
	"strings"
	"time"
)

// inferType guesses a value type for one column from its sampled values:
// int, float, bool, date, datetime, or text. Every non-empty value must
// satisfy the narrower type; a column with no non-empty samples stays text.
func inferType(values []string) string {
	samples := nonEmptyTrimmed(values)
	if len(samples) == 0 {
		return "text"
	}
	if allMatch(samples, isInt) {
		return "int"
	}
	if allMatch(samples, isFloat) {
		return "float"
	}
	if allMatch(samples, isBool) {
		return "bool"
	}

	allTime := true
	anyClock := false
	for _, v := range samples {
		ok, hasClock := parseDateOrDatetime(v)
		if !ok {
			allTime = false
			break
		}
		if hasClock {
			anyClock = true
		}
	}
	if allTime {
		if anyClock {
			return "datetime"
		}
		return "date"
	}
	return "text"
}

func nonEmptyTrimmed(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// isFloat accepts decimal and scientific notation. Integers qualify too, so
// a column mixing "3" and "3.5" infers float rather than text.
func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "t", "f", "yes", "no", "y", "n":
		return true
	default:
		return false
	}
}

// datetimeLayouts carry a clock component; dateLayouts do not. Both mirror
// the layout families the pipeline accepts for submission timestamps.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02.01.2006 15:04:05",
}

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
}

// parseDateOrDatetime tries datetime layouts first, then bare dates.
func parseDateOrDatetime(s string) (ok bool, hasClock bool) {
	for _, layout := range datetimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true, true
		}
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true, false
		}
	}
	return false, false
}
