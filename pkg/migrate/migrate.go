// Package migrate applies versioned SQL migrations to a database/sql handle.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/chrissnell/functionalflows/internal/log"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// DB represents either a database connection or transaction
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MigrationProvider defines how migrations are loaded and how applied
// versions are recorded.
type MigrationProvider interface {
	GetMigrations() ([]Migration, error)
	CreateMigrationTable(ctx context.Context, db DB) error
	GetCurrentVersion(ctx context.Context, db DB) (int, error)
	RecordVersion(ctx context.Context, db DB, version int) error
	RemoveVersion(ctx context.Context, db DB, version int) error
}

// Migrator handles the execution of migrations
type Migrator struct {
	db       *sql.DB
	provider MigrationProvider
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *sql.DB, provider MigrationProvider) *Migrator {
	return &Migrator{
		db:       db,
		provider: provider,
	}
}

// MigrateUp runs all pending migrations up to the latest version
func (m *Migrator) MigrateUp(ctx context.Context) error {
	return m.MigrateTo(ctx, -1)
}

// MigrateTo runs migrations up or down to reach targetVersion. A target of
// -1 means the latest version.
func (m *Migrator) MigrateTo(ctx context.Context, targetVersion int) error {
	currentVersion, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	migrations, err := m.sortedMigrations()
	if err != nil {
		return err
	}
	if targetVersion == -1 {
		targetVersion = 0
		if len(migrations) > 0 {
			targetVersion = migrations[len(migrations)-1].Version
		}
	}

	if targetVersion < currentVersion {
		for i := len(migrations) - 1; i >= 0; i-- {
			mig := migrations[i]
			if mig.Version > targetVersion && mig.Version <= currentVersion {
				if err := m.executeMigration(ctx, mig, false); err != nil {
					return fmt.Errorf("failed to roll back migration %d: %w", mig.Version, err)
				}
			}
		}
		return nil
	}

	for _, mig := range migrations {
		if mig.Version > currentVersion && mig.Version <= targetVersion {
			if err := m.executeMigration(ctx, mig, true); err != nil {
				return fmt.Errorf("failed to apply migration %d: %w", mig.Version, err)
			}
		}
	}
	return nil
}

// CurrentVersion returns the highest applied migration version, creating
// the tracking table if needed.
func (m *Migrator) CurrentVersion(ctx context.Context) (int, error) {
	if err := m.provider.CreateMigrationTable(ctx, m.db); err != nil {
		return 0, fmt.Errorf("failed to create migration table: %w", err)
	}
	v, err := m.provider.GetCurrentVersion(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return v, nil
}

// GetPendingMigrations returns migrations that haven't been applied yet
func (m *Migrator) GetPendingMigrations(ctx context.Context) ([]Migration, error) {
	currentVersion, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}
	migrations, err := m.sortedMigrations()
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, mig := range migrations {
		if mig.Version > currentVersion {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

func (m *Migrator) sortedMigrations() ([]Migration, error) {
	migrations, err := m.provider.GetMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to get migrations: %w", err)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// executeMigration runs a single migration up or down in one transaction
func (m *Migrator) executeMigration(ctx context.Context, mig Migration, up bool) error {
	query, direction := mig.Up, "up"
	if !up {
		query, direction = mig.Down, "down"
	}
	if query == "" {
		return fmt.Errorf("migration %d has no %s SQL", mig.Version, direction)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	if up {
		err = m.provider.RecordVersion(ctx, tx, mig.Version)
	} else {
		err = m.provider.RemoveVersion(ctx, tx, mig.Version)
	}
	if err != nil {
		return fmt.Errorf("failed to update migration version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration transaction: %w", err)
	}

	log.Infow("applied migration", "version", mig.Version, "name", mig.Name, "direction", direction)
	return nil
}
