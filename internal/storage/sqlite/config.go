package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.
	//
	//	"file:survey.db?cache=shared"
	//	"survey.db"
	//	":memory:"
	DSN string

	// Schema is accepted for parity with the server backends and ignored;
	// SQLite has a single namespace per database file.
	Schema string

	// Table is the bare target table name.
	Table string
}
