package migrate

import (
	"context"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Migration files are named 0001_create_results.up.sql and
// 0001_create_results.down.sql.
var migrationFileRegex = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// FSProvider loads migrations from an fs.FS, typically an embed.FS, and
// tracks applied versions in a SQLite table.
type FSProvider struct {
	fsys           fs.FS
	dir            string
	migrationTable string
}

// NewFSProvider creates a provider reading dir within fsys. An empty
// migrationTable defaults to schema_migrations.
func NewFSProvider(fsys fs.FS, dir, migrationTable string) *FSProvider {
	if migrationTable == "" {
		migrationTable = "schema_migrations"
	}
	return &FSProvider{
		fsys:           fsys,
		dir:            dir,
		migrationTable: migrationTable,
	}
}

// GetMigrations loads every migration found in the directory
func (p *FSProvider) GetMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(p.fsys, p.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory %s: %w", p.dir, err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := migrationFileRegex.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("invalid version number in file %s: %w", entry.Name(), err)
		}
		content, err := fs.ReadFile(p.fsys, p.dir+"/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		mig := byVersion[version]
		if mig == nil {
			mig = &Migration{Version: version, Name: strings.ReplaceAll(matches[2], "_", " ")}
			byVersion[version] = mig
		}
		if matches[3] == "up" {
			mig.Up = string(content)
		} else {
			mig.Down = string(content)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, mig := range byVersion {
		migrations = append(migrations, *mig)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// CreateMigrationTable creates the migration tracking table
func (p *FSProvider) CreateMigrationTable(ctx context.Context, db DB) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`, p.migrationTable)
	_, err := db.ExecContext(ctx, query)
	return err
}

// GetCurrentVersion returns the highest applied migration version
func (p *FSProvider) GetCurrentVersion(ctx context.Context, db DB) (int, error) {
	var version int
	query := fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s", p.migrationTable)
	if err := db.QueryRowContext(ctx, query).Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

// RecordVersion marks version as applied
func (p *FSProvider) RecordVersion(ctx context.Context, db DB, version int) error {
	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (version, applied_at) VALUES (?, CURRENT_TIMESTAMP)", p.migrationTable)
	_, err := db.ExecContext(ctx, query, version)
	return err
}

// RemoveVersion marks version as rolled back
func (p *FSProvider) RemoveVersion(ctx context.Context, db DB, version int) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE version = ?", p.migrationTable)
	_, err := db.ExecContext(ctx, query, version)
	return err
}
