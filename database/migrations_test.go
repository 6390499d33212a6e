package database

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMigrateURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", toMigrateURL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", toMigrateURL("postgresql://u@h/db"))
	assert.Equal(t, "pgx5://u@h/db", toMigrateURL("pgx5://u@h/db"))
}

func TestMigrationFilesArePaired(t *testing.T) {
	t.Parallel()

	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestMigrations(t *testing.T) {
	t.Parallel()

	db, cleanupFunc := SetupTestDB(t)
	t.Cleanup(cleanupFunc)

	connString := db.Config().ConnString()

	version, dirty, err := GetVersion(connString)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)

	ctx := context.Background()
	require.NoError(t, MigrateDown(ctx, db, 1))

	version, _, err = GetVersion(connString)
	require.NoError(t, err)
	assert.Zero(t, version)

	require.NoError(t, MigrateUp(ctx, db))
	// re-applying is a no-op
	require.NoError(t, MigrateUp(ctx, db))

	var tables int
	require.NoError(t, db.QueryRow(ctx,
		`SELECT count(*) FROM information_schema.tables WHERE table_name IN
		 ('course_details', 'course_overviews', 'service_users', 'import_status')`).Scan(&tables))
	assert.Equal(t, 4, tables)

	require.Error(t, MigrateDown(ctx, db, 0))
}
