package ddl

import (
	"fmt"
	"strings"

	"surveyetl/internal/storage"
)

// Statements returns the MySQL statements that replace the target table:
// ensure the database exists, drop the previous run's table, create it fresh
// from storage.TargetColumns. MySQL has no separate schema level; the
// configured schema is a database.
func Statements(schema, table string) ([]string, error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("mysql ddl: table must not be empty")
	}
	fqn := quoteFQN(schema, table)

	cols := make([]string, 0, 13)
	pks := make([]string, 0, 1)
	for _, c := range storage.TargetColumns() {
		cols = append(cols, columnSQL(c))
		if c.PrimaryKey {
			pks = append(pks, quoteIdent(c.Name))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}
	create := fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", fqn, strings.Join(cols, ",\n  "))

	stmts := make([]string, 0, 3)
	if schema != "" {
		stmts = append(stmts, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", quoteIdent(schema)))
	}
	return append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s", fqn), create), nil
}

// columnSQL renders one column line. AUTO_INCREMENT must follow NOT NULL in
// MySQL's column grammar.
func columnSQL(c storage.TargetColumn) string {
	var sb strings.Builder
	sb.WriteString(quoteIdent(c.Name))
	sb.WriteByte(' ')
	sb.WriteString(MapType(c.Kind))
	if !c.Nullable {
		sb.WriteString(" NOT NULL")
	}
	if c.Kind == "id" {
		sb.WriteString(" AUTO_INCREMENT")
	}
	if c.Default != "" {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(c.Default)
	}
	return sb.String()
}

// quoteIdent quotes a single identifier segment with backticks.
func quoteIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// quoteFQN renders the database-qualified table name; an empty schema yields
// the bare quoted table.
func quoteFQN(schema, table string) string {
	if schema == "" {
		return quoteIdent(table)
	}
	return quoteIdent(schema) + "." + quoteIdent(table)
}
