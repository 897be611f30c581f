package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearDBEnv(t *testing.T) {
	for _, k := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "GEMINI_API_KEY", "WHATSAPP_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearDBEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "consign_db", cfg.Database.Name)
	assert.Equal(t, "simulated", cfg.WhatsApp.Provider)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "postgres://postgres:@localhost:5432/consign_db?sslmode=disable", cfg.DSN())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	clearDBEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
database:
  host: db.internal
  name: from_file
scanner:
  model: gemini-test
`), 0o600))

	t.Setenv("DB_NAME", "from_env")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("GEMINI_API_KEY", "k-123")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "from_env", cfg.Database.Name)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "gemini-test", cfg.Scanner.Model)
	assert.Equal(t, "k-123", cfg.Scanner.APIKey)
}

func TestLoadFileRejectsBrokenYAML(t *testing.T) {
	clearDBEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [port"), 0o600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
