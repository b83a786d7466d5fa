// Package all wires every built-in storage backend into the storage factory.
//
// It exists purely for side effects: importing it (even as a blank import)
// runs each backend's init function, which registers its factory and DDL
// bootstrapper with the storage package. Importing this package makes the
// following storage kinds available at runtime:
//
//   - "postgres" (surveyetl/internal/storage/postgres)
//   - "mysql"    (surveyetl/internal/storage/mysql)
//   - "mssql"    (surveyetl/internal/storage/mssql)
//   - "sqlite"   (surveyetl/internal/storage/sqlite)
//
// Typical usage, in cmd/etl or a similar wiring layer:
//
//	import (
//	    _ "surveyetl/internal/storage/all" // enable all built-in backends
//
//	    "surveyetl/internal/storage"
//	)
//
//	repo, err := storage.New(ctx, storage.Config{
//	    Kind:   cfg.Storage.Kind,
//	    DSN:    cfg.Storage.DSN,
//	    Schema: cfg.Storage.Schema,
//	    Table:  cfg.Storage.Table,
//	})
//
// From that point the caller stays backend-agnostic: DDL goes through
// storage.ReplaceTarget and rows through the storage.Repository interface. A
// binary that only needs one backend can import that backend package instead
// of this one.
package all

import (
	_ "surveyetl/internal/storage/mssql"
	_ "surveyetl/internal/storage/mysql"
	_ "surveyetl/internal/storage/postgres"
	_ "surveyetl/internal/storage/sqlite"
)
