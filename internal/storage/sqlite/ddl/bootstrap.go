package ddl

import (
	"context"
	"fmt"

	"surveyetl/internal/storage"
)

// Recreate drops and recreates the target table through the repository's
// Exec method. It runs before every load, so the table always starts empty.
func Recreate(ctx context.Context, repo storage.Repository, table string) error {
	stmts, err := Statements(table)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ddl: %w", err)
		}
	}
	return nil
}
