package ddl

import (
	"fmt"
	"strings"

	gddl "surveyetl/internal/ddl"
	"surveyetl/internal/storage"
)

// Statements returns the SQLite statements that replace the target table:
// drop the previous run's table, create it fresh from storage.TargetColumns.
// There is no namespace statement; SQLite has one namespace per file. The id
// column stays a rowid alias because it is the single INTEGER column named
// by the PRIMARY KEY table constraint, so omitted ids self-assign.
func Statements(table string) ([]string, error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("sqlite ddl: table must not be empty")
	}
	quoted := quoteIdent(table)

	def := gddl.TableDef{FQN: quoted}
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

	return []string{fmt.Sprintf("DROP TABLE IF EXISTS %s", quoted), create}, nil
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
