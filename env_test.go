package translateplus

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable envconfig may read, prefixed or not.
// t.Setenv restores the previous values when the test ends.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"API_KEY", "BASE_URL", "TIMEOUT", "MAX_RETRIES", "MAX_CONCURRENT", "LOG_LEVEL"} {
		for _, key := range []string{EnvPrefix + "_" + name, name} {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
	}
}

func TestLoadEnvConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRANSLATEPLUS_API_KEY", " env-key ")

	cfg, err := LoadEnvConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, DefaultMaxConcurrent, cfg.MaxConcurrent)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, level)
}

func TestLoadEnvConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRANSLATEPLUS_API_KEY", "env-key")
	t.Setenv("TRANSLATEPLUS_BASE_URL", "http://localhost:8080/")
	t.Setenv("TRANSLATEPLUS_TIMEOUT", "5s")
	t.Setenv("TRANSLATEPLUS_MAX_RETRIES", "7")
	t.Setenv("TRANSLATEPLUS_MAX_CONCURRENT", "2")
	t.Setenv("TRANSLATEPLUS_LOG_LEVEL", "DEBUG")

	cfg, err := LoadEnvConfig()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 7, cfg.MaxRetries)
	assert.Equal(t, 2, cfg.MaxConcurrent)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)
}

func TestLoadEnvConfig_MissingKey(t *testing.T) {
	clearEnv(t)

	_, err := LoadEnvConfig()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "TRANSLATEPLUS_API_KEY")
}

func TestLoadEnvConfig_BadValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRANSLATEPLUS_API_KEY", "env-key")
	t.Setenv("TRANSLATEPLUS_MAX_RETRIES", "many")

	_, err := LoadEnvConfig()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEnvConfig_BadLevel(t *testing.T) {
	cfg := &EnvConfig{LogLevel: "loud"}
	_, err := cfg.Level()
	assert.Error(t, err)
}

func TestNewFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRANSLATEPLUS_API_KEY", "env-key")
	t.Setenv("TRANSLATEPLUS_BASE_URL", "http://localhost:8080/")
	t.Setenv("TRANSLATEPLUS_MAX_CONCURRENT", "9")

	client, err := NewFromEnv(WithMaxConcurrent(3))
	require.NoError(t, err)

	cfg := client.Config()
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 3, cfg.MaxConcurrent, "explicit options win over the environment")
}
