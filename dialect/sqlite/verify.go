package sqlite

import (
	"context"
	"fmt"

	"ariga.io/atlas/sql/schema"
	atlas "ariga.io/atlas/sql/sqlite"
)

// Verify runs the migration script against a fresh in-memory database and
// returns the resulting schema, as read back from the database catalog.
func Verify(ctx context.Context, script string) (*schema.Schema, error) {
	db, err := OpenMemory()
	if err != nil {
		return nil, fmt.Errorf("dialect/sqlite: open: %w", err)
	}
	defer db.Close()
	if err := Apply(ctx, db, []string{script}); err != nil {
		return nil, err
	}
	return Inspect(ctx, db)
}

// Inspect returns the main schema of the database.
func Inspect(ctx context.Context, db schema.ExecQuerier) (*schema.Schema, error) {
	drv, err := atlas.Open(db)
	if err != nil {
		return nil, fmt.Errorf("dialect/sqlite: open inspector: %w", err)
	}
	s, err := drv.InspectSchema(ctx, "", nil)
	if err != nil {
		return nil, fmt.Errorf("dialect/sqlite: inspect: %w", err)
	}
	return s, nil
}
