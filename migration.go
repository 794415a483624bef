package sentience

import (
	"context"
	"fmt"
)

// Migration changes the schema through Database methods only.
type Migration interface {
	Apply(ctx context.Context, db *Database) error
	Rollback(ctx context.Context, db *Database) error
}

// MigrationFuncs adapts a pair of functions to Migration. A nil Down makes
// Rollback a no-op.
type MigrationFuncs struct {
	Up   func(ctx context.Context, db *Database) error
	Down func(ctx context.Context, db *Database) error
}

func (m MigrationFuncs) Apply(ctx context.Context, db *Database) error {
	return m.Up(ctx, db)
}

func (m MigrationFuncs) Rollback(ctx context.Context, db *Database) error {
	if m.Down == nil {
		return nil
	}
	return m.Down(ctx, db)
}

// Migrate applies migrations in order, each in its own transaction. It stops
// at the first failure; earlier migrations stay applied.
func (d *Database) Migrate(ctx context.Context, migrations ...Migration) error {
	for i, m := range migrations {
		err := d.Transaction(ctx, func(db *Database) error {
			return m.Apply(ctx, db)
		})
		if err != nil {
			return fmt.Errorf("apply migration %d: %w", i, err)
		}
	}
	return nil
}

// RollbackMigrations reverts migrations in reverse order, each in its own
// transaction.
func (d *Database) RollbackMigrations(ctx context.Context, migrations ...Migration) error {
	for i := len(migrations) - 1; i >= 0; i-- {
		m := migrations[i]
		err := d.Transaction(ctx, func(db *Database) error {
			return m.Rollback(ctx, db)
		})
		if err != nil {
			return fmt.Errorf("rollback migration %d: %w", i, err)
		}
	}
	return nil
}
