package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", config.App.Port)
	assert.Equal(t, 10*time.Second, config.App.ShutdownTimeout)
	assert.Equal(t, 24, config.Token.ExpiryHours)
	assert.Equal(t, 6, config.Code.Length)
	assert.Equal(t, int32(10), config.Database.MaxConns)
	assert.True(t, config.RateLimit.Enabled)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "PORT=9090\nDB_NAME=yamdb_test\nCODE_LENGTH=8\nRATE_LIMIT_RPS=0.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DB_NAME", "from_env")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", config.App.Port)
	assert.Equal(t, "from_env", config.Database.Name)
	assert.Equal(t, 8, config.Code.Length)
	assert.InDelta(t, 0.5, config.RateLimit.RPS, 0.0001)
}
