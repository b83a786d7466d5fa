// Package ddl renders the MySQL DDL that recreates the survey target table.
// MySQL places AUTO_INCREMENT after the null constraint, so this package
// renders column lines itself instead of using the baseline builder.
package ddl

import "strings"

// MapType maps a logical column kind from storage.TargetColumns into the
// MySQL type used in CREATE TABLE.
//
//	"id"             -> INT (AUTO_INCREMENT is added by the renderer)
//	"int"/"integer"  -> INT
//	"timestamp"      -> DATETIME
//	"varchar(n)"     -> VARCHAR(n)
//	"decimal(p,s)"   -> DECIMAL(p,s)
//	everything else  -> TEXT
func MapType(kind string) string {
	k := strings.ToLower(strings.TrimSpace(kind))
	switch {
	case k == "id", k == "int", k == "integer":
		return "INT"
	case k == "timestamp":
		return "DATETIME"
	case strings.HasPrefix(k, "varchar("), strings.HasPrefix(k, "decimal("):
		return strings.ToUpper(k)
	default:
		return "TEXT"
	}
}
