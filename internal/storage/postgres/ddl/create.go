package ddl

import (
	"fmt"
	"strings"

	gddl "surveyetl/internal/ddl"
	"surveyetl/internal/storage"
)

// Statements returns the Postgres statements that replace the target table:
// ensure the schema exists, drop the previous run's table, create it fresh
// from storage.TargetColumns. The baseline renderer already emits
// Postgres-compatible syntax, so only quoting and type mapping happen here.
func Statements(schema, table string) ([]string, error) {
	fqn := quoteFQN(schema, table)

	def := gddl.TableDef{FQN: fqn}
	for _, c := range storage.TargetColumns() {
		def.Columns = append(def.Columns, gddl.ColumnDef{
			Name:       quoteIdent(c.Name),
			SQLType:    MapType(c.Kind),
			Nullable:   c.Nullable,
			PrimaryKey: c.PrimaryKey,
			Default:    c.Default,
		})
	}
	create, err := gddl.BuildCreateTableSQL(def)
	if err != nil {
		return nil, err
	}

	stmts := make([]string, 0, 3)
	if schema != "" {
		stmts = append(stmts, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", quoteIdent(schema)))
	}
	return append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s", fqn), create), nil
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// quoteFQN renders the schema-qualified table name; an empty schema yields
// the bare quoted table.
func quoteFQN(schema, table string) string {
	if schema == "" {
		return quoteIdent(table)
	}
	return quoteIdent(schema) + "." + quoteIdent(table)
}
