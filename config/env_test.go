package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zefrenchwan/lineage.git/config"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{config.ENV_DB_URL, config.ENV_PORT, config.ENV_CACHE_SIZE, config.ENV_WORKERS, config.ENV_MAX_DEPTH, config.ENV_REQUIRE_DB} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	settings := config.FromEnv()
	assert.Equal(t, "", settings.DatabaseUrl)
	assert.Equal(t, config.DEFAULT_PORT, settings.Port)
	assert.Equal(t, 500, settings.CacheSize)
	assert.Equal(t, config.DEFAULT_WORKERS, settings.Workers)
	assert.NoError(t, settings.Validate())
}

func TestFromEnvValues(t *testing.T) {
	t.Setenv(config.ENV_PORT, ":9090")
	t.Setenv(config.ENV_CACHE_SIZE, "20")
	t.Setenv(config.ENV_WORKERS, "not a number")

	settings := config.FromEnv()
	assert.Equal(t, ":9090", settings.Port)
	assert.Equal(t, 20, settings.CacheSize)
	assert.Equal(t, config.DEFAULT_WORKERS, settings.Workers)
}

func TestRequireDatabase(t *testing.T) {
	t.Setenv(config.ENV_DB_URL, "")
	t.Setenv(config.ENV_REQUIRE_DB, "true")
	settings := config.FromEnv()
	assert.True(t, settings.RequireDatabase)
	assert.Error(t, settings.Validate())

	t.Setenv(config.ENV_DB_URL, "postgres://localhost/lineage")
	assert.NoError(t, config.FromEnv().Validate())

	t.Setenv(config.ENV_REQUIRE_DB, "yes")
	assert.False(t, config.FromEnv().RequireDatabase, "only true or false are read")
}

func TestValidate(t *testing.T) {
	settings := config.FromEnv()
	settings.Port = "8080"
	assert.Error(t, settings.Validate())

	settings.Port = ":http"
	assert.Error(t, settings.Validate())

	settings.Port = ":8080"
	settings.Workers = 0
	assert.Error(t, settings.Validate())
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("LINEAGE_TEST_FLAG", "true")
	assert.True(t, config.GetEnvBool("LINEAGE_TEST_FLAG", false))
	t.Setenv("LINEAGE_TEST_FLAG", "yes")
	assert.False(t, config.GetEnvBool("LINEAGE_TEST_FLAG", false))
}

func TestLoadEnvFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("LINEAGE_TEST_FROM_FILE=loaded\n"), 0o600))
	t.Setenv("LINEAGE_TEST_FROM_FILE", "")
	os.Unsetenv("LINEAGE_TEST_FROM_FILE")

	assert.True(t, config.LoadEnv(file))
	assert.Equal(t, "loaded", config.GetEnvString("LINEAGE_TEST_FROM_FILE", ""))
	assert.False(t, config.LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestNewLogger(t *testing.T) {
	logger, err := config.NewLogger("debug", "console", "test")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	logger, err = config.NewLogger("warn", "json", "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(0))
}
