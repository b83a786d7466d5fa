package ddl

import (
	"fmt"
	"strings"

	"surveyetl/internal/storage"
)

// Statements returns the T-SQL statements that replace the target table:
// ensure the schema exists via a sys.schemas guard, drop the previous run's
// table, create it fresh from storage.TargetColumns.
func Statements(schema, table string) ([]string, error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("mssql ddl: table must not be empty")
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
		stmts = append(stmts, ensureSchemaSQL(schema))
	}
	return append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s", fqn), create), nil
}

// ensureSchemaSQL guards schema creation with a sys.schemas lookup; CREATE
// SCHEMA must be the only statement in its batch, hence the EXEC.
func ensureSchemaSQL(schema string) string {
	lit := strings.ReplaceAll(schema, "'", "''")
	inner := strings.ReplaceAll("CREATE SCHEMA "+quoteIdent(schema), "'", "''")
	return fmt.Sprintf("IF NOT EXISTS (SELECT 1 FROM sys.schemas WHERE name = N'%s') EXEC('%s')", lit, inner)
}

// columnSQL renders one column line. IDENTITY sits between the type and the
// null constraint in T-SQL's column grammar.
func columnSQL(c storage.TargetColumn) string {
	var sb strings.Builder
	sb.WriteString(quoteIdent(c.Name))
	sb.WriteByte(' ')
	sb.WriteString(MapType(c.Kind))
	if c.Kind == "id" {
		sb.WriteString(" IDENTITY(1,1)")
	}
	if !c.Nullable {
		sb.WriteString(" NOT NULL")
	}
	if c.Default != "" {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(c.Default)
	}
	return sb.String()
}

// quoteIdent quotes a single identifier segment with brackets.
func quoteIdent(id string) string { return "[" + strings.ReplaceAll(id, "]", "]]") + "]" }

// quoteFQN renders the schema-qualified table name; an empty schema yields
// the bare quoted table.
func quoteFQN(schema, table string) string {
	if schema == "" {
		return quoteIdent(table)
	}
	return quoteIdent(schema) + "." + quoteIdent(table)
}
