// Package ddl renders the SQLite DDL that recreates the survey target table.
package ddl

import "strings"

// MapType maps a logical column kind from storage.TargetColumns into a
// SQLite column type. SQLite types are affinities, so the mapping prefers
// the canonical ones:
//
//	"id"             -> INTEGER (rowid alias via the PRIMARY KEY constraint)
//	"int"/"integer"  -> INTEGER
//	"timestamp"      -> TEXT (ISO-8601 strings)
//	"varchar(n)"     -> TEXT
//	"decimal(p,s)"   -> NUMERIC
//	everything else  -> TEXT
func MapType(kind string) string {
	k := strings.ToLower(strings.TrimSpace(kind))
	switch {
	case k == "id", k == "int", k == "integer":
		return "INTEGER"
	case strings.HasPrefix(k, "decimal("):
		return "NUMERIC"
	default:
		return "TEXT"
	}
}
