// Package ddl renders the T-SQL that recreates the survey target table.
// T-SQL has no CREATE SCHEMA IF NOT EXISTS and places IDENTITY inside the
// column definition, so this package renders its statements itself.
package ddl

import "strings"

// MapType maps a logical column kind from storage.TargetColumns into the SQL
// Server type used in CREATE TABLE.
//
//	"id"             -> INT (IDENTITY(1,1) is added by the renderer)
//	"int"/"integer"  -> INT
//	"timestamp"      -> DATETIME2
//	"varchar(n)"     -> NVARCHAR(n)
//	"decimal(p,s)"   -> DECIMAL(p,s)
//	everything else  -> NVARCHAR(MAX)
func MapType(kind string) string {
	k := strings.ToLower(strings.TrimSpace(kind))
	switch {
	case k == "id", k == "int", k == "integer":
		return "INT"
	case k == "timestamp":
		return "DATETIME2"
	case strings.HasPrefix(k, "varchar("):
		return "N" + strings.ToUpper(k)
	case strings.HasPrefix(k, "decimal("):
		return strings.ToUpper(k)
	default:
		return "NVARCHAR(MAX)"
	}
}
