package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationsDir = "../../migrations"

func TestMigrationFilesPaired(t *testing.T) {
	ups, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := os.Stat(down)
		assert.NoError(t, err, "missing down migration for %s", filepath.Base(up))
	}
}

func TestMigrationFilesContent(t *testing.T) {
	up, err := os.ReadFile(filepath.Join(migrationsDir, "000001_lead_journal.up.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS lead_submissions")

	down, err := os.ReadFile(filepath.Join(migrationsDir, "000001_lead_journal.down.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(down), "DROP TABLE IF EXISTS lead_submissions")
}

func TestConfigureTLS(t *testing.T) {
	cfg, err := configureTLS("postgres://localhost:5432/pestpro", "/does/not/matter")
	require.NoError(t, err)
	assert.Nil(t, cfg)

	cfg, err = configureTLS("postgres://db/pestpro?sslmode=require", "")
	require.NoError(t, err)
	assert.Nil(t, cfg)

	_, err = configureTLS("postgres://db/pestpro?sslmode=verify-full", filepath.Join(t.TempDir(), "missing.pem"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.pem")
	require.NoError(t, os.WriteFile(bad, []byte("not a cert"), 0o600))
	_, err = configureTLS("postgres://db/pestpro?sslmode=verify-full", bad)
	assert.Error(t, err)
}
