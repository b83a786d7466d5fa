// Package ddl holds the dialect-neutral table model the storage backends
// render their CREATE TABLE statements from, plus a baseline renderer for
// dialects whose syntax matches it (Postgres, SQLite). Backends with
// diverging syntax (MySQL attribute order, T-SQL) render the same model
// themselves.
package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders a CREATE TABLE statement from def. Each column
// becomes
//
//	<Name> <SQLType> [NOT NULL] [DEFAULT <Default>]
//
// and primary key columns are collected into a trailing PRIMARY KEY (...)
// table constraint. Names and the FQN are emitted verbatim; quoting happened
// at the caller.
func BuildCreateTableSQL(def TableDef) (string, error) {
	fqn := strings.TrimSpace(def.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(def.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(def.Columns)+1)
	pks := make([]string, 0, 1)

	for _, c := range def.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(name)
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if d := strings.TrimSpace(c.Default); d != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(d)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, name)
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", fqn, strings.Join(cols, ",\n  ")), nil
}
