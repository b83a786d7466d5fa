package ddl

// ColumnDef describes one column of a table definition in dialect-neutral
// terms. Name is emitted verbatim, so callers pass it pre-quoted for their
// dialect; SQLType is the already-mapped destination type. Default is a raw
// SQL expression.
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the table name and its ordered columns. FQN is emitted
// verbatim by renderers, so callers pass the quoted, schema-qualified form.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}
