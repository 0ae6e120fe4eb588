package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int      `env:"LOADER_TEST_PORT" envDefault:"8080"`
	LogLevel string   `env:"LOADER_TEST_LOG_LEVEL" envDefault:"info"`
	Origins  []string `env:"LOADER_TEST_ORIGINS" envDefault:"a,b" envSeparator:","`
}

func TestLoad_AppliesDefaults(t *testing.T) {
	var cfg testConfig

	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"a", "b"}, cfg.Origins)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("LOADER_TEST_PORT", "9090")
	t.Setenv("LOADER_TEST_ORIGINS", "x,y,z")
	var cfg testConfig

	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"x", "y", "z"}, cfg.Origins)
}

func TestLoad_UnparseableValue(t *testing.T) {
	t.Setenv("LOADER_TEST_PORT", "not-a-number")
	var cfg testConfig

	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse environment config")
}
