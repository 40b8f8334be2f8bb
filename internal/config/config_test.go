package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable LoadFromEnv reads; empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LIBRUS_CONFIG", "LIBRUS_API_URL", "LIBRUS_TOKEN_URL", "LIBRUS_TOKEN_PATH", "LIBRUS_TIMEOUT",
		"LIBRUS_PARALLEL_FETCH", "LIBRUS_SQLITE_PATH", "LIBRUS_CSV_OUTPUT_PATH", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultTokenURL, cfg.TokenURL)
	assert.Equal(t, DefaultTokenPath, cfg.TokenPath)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.False(t, cfg.ParallelFetch)
	assert.False(t, cfg.SnapshotEnabled())
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LIBRUS_API_URL", "http://localhost:9999/3.0/")
	t.Setenv("LIBRUS_TOKEN_PATH", "/tmp/token.json")
	t.Setenv("LIBRUS_TIMEOUT", "30s")
	t.Setenv("LIBRUS_PARALLEL_FETCH", "true")
	t.Setenv("LIBRUS_CSV_OUTPUT_PATH", "grades.csv")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/3.0/", cfg.APIURL)
	assert.Equal(t, "/tmp/token.json", cfg.TokenPath)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.True(t, cfg.ParallelFetch)
	assert.False(t, cfg.SnapshotEnabled(), "csv export alone does not open sqlite")
	assert.Equal(t, "grades.csv", cfg.CSVOutputPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "timeout not a duration", key: "LIBRUS_TIMEOUT", value: "soon"},
		{name: "negative timeout", key: "LIBRUS_TIMEOUT", value: "-5s"},
		{name: "parallel not a bool", key: "LIBRUS_PARALLEL_FETCH", value: "maybe"},
		{name: "unknown log level", key: "LOG_LEVEL", value: "verbose"},
		{name: "unknown log format", key: "LOG_FORMAT", value: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadFromEnvReadsConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "librus.yaml")
	content := `
api_url: http://file.example/3.0/
timeout: 45s
sqlite_path: snapshot.db
logging:
  level: info
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("LIBRUS_CONFIG", path)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://file.example/3.0/", cfg.APIURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.True(t, cfg.SnapshotEnabled())
	assert.Equal(t, "snapshot.db", cfg.SQLitePath)
	assert.Equal(t, DefaultTokenPath, cfg.TokenPath, "keys absent from the file keep defaults")
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "error", cfg.Logging.Level, "env wins over the file")
}

func TestLoadFromEnvRejectsInvalidLoggingInFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "librus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: xml\n"), 0o600))
	t.Setenv("LIBRUS_CONFIG", path)

	_, err := LoadFromEnv()
	assert.ErrorContains(t, err, "invalid log format")
}

func TestLoadFromEnvMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("LIBRUS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := LoadFromEnv()
	assert.Error(t, err)
}
