// Package testutil opens throwaway migrated databases for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yigit/schooladmin/internal/app/migrations"
	"github.com/yigit/schooladmin/internal/db"
)

// NewSQLite returns a migrated SQLite database in the test's temp dir.
func NewSQLite(t testing.TB) *db.Database {
	t.Helper()
	ctx := context.Background()
	database, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	_, err = migrations.NewMigrator(database).Up(ctx)
	require.NoError(t, err)
	return database
}
