package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Lease Tables")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(mf.UpPath, "_add_lease_tables.up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, "_add_lease_tables.down.sql"))
	assert.Len(t, mf.Version, 14)

	for _, path := range []string{mf.UpPath, mf.DownPath} {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "Add Lease Tables")
	}
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(dir, "init")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"20250101000000_init.up.sql",
		"20250101000000_init.down.sql",
		"20250201000000_add_payments.up.sql",
		"20250201000000_add_payments.down.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
	}

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20250101000000_init",
		"20250201000000_add_payments",
	}, migrations)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "add_lease_tables", sanitizeName("Add  Lease--Tables"))
	assert.Equal(t, "v2_schema", sanitizeName("V2 Schema!"))
	assert.Equal(t, "init", sanitizeName("init_"))
}
