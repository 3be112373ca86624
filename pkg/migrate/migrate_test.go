package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var testMigrations = fstest.MapFS{
	"migrations/0001_create_runs.up.sql":     {Data: []byte("CREATE TABLE runs (run_id TEXT PRIMARY KEY)")},
	"migrations/0001_create_runs.down.sql":   {Data: []byte("DROP TABLE runs")},
	"migrations/0002_add_run_label.up.sql":   {Data: []byte("ALTER TABLE runs ADD COLUMN label TEXT")},
	"migrations/0002_add_run_label.down.sql": {Data: []byte("ALTER TABLE runs DROP COLUMN label")},
	"migrations/README.md":                   {Data: []byte("ignored")},
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetMigrations(t *testing.T) {
	migrations, err := NewFSProvider(testMigrations, "migrations", "").GetMigrations()
	require.NoError(t, err)

	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create runs", migrations[0].Name)
	assert.Equal(t, "DROP TABLE runs", migrations[0].Down)
	assert.Equal(t, 2, migrations[1].Version)
}

func TestGetMigrationsMissingDir(t *testing.T) {
	_, err := NewFSProvider(testMigrations, "nope", "").GetMigrations()
	assert.Error(t, err)
}

func TestMigrateUpAndDown(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	m := NewMigrator(db, NewFSProvider(testMigrations, "migrations", ""))

	pending, err := m.GetPendingMigrations(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, m.MigrateUp(ctx))
	v, err := m.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = db.Exec(`INSERT INTO runs (run_id, label) VALUES ('a', 'first')`)
	require.NoError(t, err)

	// applying again is a no-op
	require.NoError(t, m.MigrateUp(ctx))

	require.NoError(t, m.MigrateTo(ctx, 1))
	v, err = m.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = db.Exec(`INSERT INTO runs (run_id, label) VALUES ('b', 'second')`)
	assert.Error(t, err, "label column should be gone")

	require.NoError(t, m.MigrateTo(ctx, 0))
	_, err = db.Exec(`SELECT COUNT(*) FROM runs`)
	assert.Error(t, err)
}

func TestMigrationWithoutDownFails(t *testing.T) {
	ctx := context.Background()
	fsys := fstest.MapFS{
		"m/0001_only_up.up.sql": {Data: []byte("CREATE TABLE t (id INTEGER)")},
	}
	m := NewMigrator(openDB(t), NewFSProvider(fsys, "m", "versions"))

	require.NoError(t, m.MigrateUp(ctx))
	assert.Error(t, m.MigrateTo(ctx, 0))
}
