// Package ddl renders the Postgres DDL that recreates the survey target
// table for a full-replace load.
package ddl

import "strings"

// MapType maps a logical column kind from storage.TargetColumns into the
// Postgres type used in CREATE TABLE.
//
//	"id"             -> SERIAL
//	"int"/"integer"  -> INTEGER
//	"timestamp"      -> TIMESTAMP
//	"varchar(n)"     -> VARCHAR(n)
//	"decimal(p,s)"   -> DECIMAL(p,s)
//	everything else  -> TEXT
func MapType(kind string) string {
	k := strings.ToLower(strings.TrimSpace(kind))
	switch {
	case k == "id":
		return "SERIAL"
	case k == "int" || k == "integer":
		return "INTEGER"
	case k == "timestamp":
		return "TIMESTAMP"
	case strings.HasPrefix(k, "varchar("), strings.HasPrefix(k, "decimal("):
		return strings.ToUpper(k)
	default:
		return "TEXT"
	}
}
