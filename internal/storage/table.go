package storage

// TargetColumn describes one destination column in backend-neutral terms.
// Kind is a logical type each backend maps to its dialect (MapType); Default
// is a raw SQL expression every supported dialect accepts.
type TargetColumn struct {
	Name       string
	Kind       string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// targetColumns is the full shape of the survey table, in DDL order. The
// surrogate id and the created_at audit column are database-populated; the
// ten columns between them carry submission data and stay nullable so a
// sparse answer never blocks its row.
var targetColumns = []TargetColumn{
	{Name: "id", Kind: "id", PrimaryKey: true},
	{Name: "submission_start", Kind: "timestamp", Nullable: true},
	{Name: "submission_end", Kind: "timestamp", Nullable: true},
	{Name: "age_group", Kind: "varchar(100)", Nullable: true},
	{Name: "gender", Kind: "varchar(50)", Nullable: true},
	{Name: "vaccination_status", Kind: "varchar(100)", Nullable: true},
	{Name: "healthcare_visits_count", Kind: "integer", Nullable: true},
	{Name: "exercise_frequency", Kind: "varchar(100)", Nullable: true},
	{Name: "water_source", Kind: "varchar(100)", Nullable: true},
	{Name: "sleep_hours", Kind: "decimal(5,2)", Nullable: true},
	{Name: "health_insurance", Kind: "varchar(50)", Nullable: true},
	{Name: "created_at", Kind: "timestamp", Nullable: true, Default: "CURRENT_TIMESTAMP"},
}

// TargetColumns returns the full destination table shape in DDL order.
func TargetColumns() []TargetColumn {
	out := make([]TargetColumn, len(targetColumns))
	copy(out, targetColumns)
	return out
}

// DataColumns returns the names of the columns the loader inserts, in insert
// order, excluding the database-populated id and created_at.
func DataColumns() []string {
	out := make([]string, 0, len(targetColumns)-2)
	for _, c := range targetColumns {
		if c.Kind == "id" || c.Default != "" {
			continue
		}
		out = append(out, c.Name)
	}
	return out
}
