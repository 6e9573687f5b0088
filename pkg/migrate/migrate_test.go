package migrate

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateEmbedded())
}

func TestValidateFSRejectsBadFiles(t *testing.T) {
	bad := fstest.MapFS{
		"m/20260101000000_ok.sql":  {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"m/20260101000000_dup.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	require.ErrorContains(t, ValidateFS(bad, "m"), "duplicate migration version")

	noDown := fstest.MapFS{"m/20260101000000_ok.sql": {Data: []byte("-- +goose Up\n")}}
	require.ErrorContains(t, ValidateFS(noDown, "m"), "missing")

	badName := fstest.MapFS{"m/create_things.sql": {Data: []byte("")}}
	require.ErrorContains(t, ValidateFS(badName, "m"), "invalid migration filename")
}

func TestRunAppliesSeedOnSQLite(t *testing.T) {
	sqlDB := openSQLite(t)

	ctx := context.Background()
	require.NoError(t, Run(ctx, sqlDB, "sqlite3", "up"))

	var count int
	require.NoError(t, sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM meals").Scan(&count))
	require.Equal(t, 4, count)

	require.NoError(t, MigrateToVersion(ctx, sqlDB, "sqlite3", "20260301120000"))
	require.NoError(t, sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM meals").Scan(&count))
	require.Equal(t, 0, count)
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

	path, err := CreateSQLMigration(dir, "Add Meal Images!", now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20260506070809_add_meal_images.sql"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "-- +goose Down"))

	_, err = CreateSQLMigration(dir, "Add Meal Images!", now)
	require.Error(t, err)

	_, err = CreateSQLMigration(dir, "!!!", now)
	require.Error(t, err)
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}
