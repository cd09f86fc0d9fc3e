package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Unit tests for config.go

// defaultConfig returns the Config envconfig builds from the struct tags alone.
func defaultConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	return cfg
}

func TestValidateConfig_Valid(t *testing.T) {
	cfg := defaultConfig(t)
	if err := ValidateConfig(&cfg); err != nil {
		t.Errorf("ValidateConfig() error = %v, want nil", err)
	}
}

func TestValidateConfig_EmptyInputPath(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.InputPath = ""
	if err := ValidateConfig(&cfg); err != ErrInvalidInputPath {
		t.Errorf("ValidateConfig() error = %v, want %v", err, ErrInvalidInputPath)
	}
}

func TestValidateConfig_InvalidStrategy(t *testing.T) {
	for _, strategy := range []string{"", "fastest"} {
		cfg := defaultConfig(t)
		cfg.Strategy = strategy
		if err := ValidateConfig(&cfg); err != ErrInvalidStrategy {
			t.Errorf("ValidateConfig() with Strategy=%q error = %v, want %v", strategy, err, ErrInvalidStrategy)
		}
	}
}

func TestValidateConfig_ValidStrategies(t *testing.T) {
	for _, strategy := range []string{"sorted", "greedy"} {
		cfg := defaultConfig(t)
		cfg.Strategy = strategy
		if err := ValidateConfig(&cfg); err != nil {
			t.Errorf("ValidateConfig() with Strategy=%q error = %v, want nil", strategy, err)
		}
	}
}

func TestValidateConfig_InvalidLogFormat(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.LogFormat = "xml"
	if err := ValidateConfig(&cfg); err != ErrInvalidLogFormat {
		t.Errorf("ValidateConfig() error = %v, want %v", err, ErrInvalidLogFormat)
	}
}

func TestValidateConfig_ValidLogFormats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := defaultConfig(t)
		cfg.LogFormat = format
		if err := ValidateConfig(&cfg); err != nil {
			t.Errorf("ValidateConfig() with LogFormat=%q error = %v, want nil", format, err)
		}
	}
}

func TestValidateConfig_InvalidLogLevel(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.LogLevel = "trace"
	if err := ValidateConfig(&cfg); err != ErrInvalidLogLevel {
		t.Errorf("ValidateConfig() error = %v, want %v", err, ErrInvalidLogLevel)
	}
}

func TestValidateConfig_ValidLogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := defaultConfig(t)
		cfg.LogLevel = level
		if err := ValidateConfig(&cfg); err != nil {
			t.Errorf("ValidateConfig() with LogLevel=%q error = %v, want nil", level, err)
		}
	}
}

// TestLoadConfigDefaults verifies the envconfig default tags
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Config{
		InputPath: "puzzle.txt",
		Strategy:  "sorted",
		LogFormat: "console",
		LogLevel:  "info",
	}, cfg)
	assert.NoError(t, ValidateConfig(&cfg))
}

// TestLoadConfigEnvVars verifies environment variable parsing
func TestLoadConfigEnvVars(t *testing.T) {
	t.Setenv("PAIRDIST_INPUT_PATH", "lists.parquet")
	t.Setenv("PAIRDIST_STRATEGY", "greedy")
	t.Setenv("PAIRDIST_PARALLEL", "true")
	t.Setenv("PAIRDIST_LEGACY_LABELS", "true")
	t.Setenv("PAIRDIST_VERIFY", "true")
	t.Setenv("PAIRDIST_LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "lists.parquet", cfg.InputPath)
	assert.Equal(t, "greedy", cfg.Strategy)
	assert.True(t, cfg.Parallel)
	assert.True(t, cfg.LegacyLabels)
	assert.True(t, cfg.Verify)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadConfigInvalidBool(t *testing.T) {
	t.Setenv("PAIRDIST_PARALLEL", "sometimes")
	_, err := LoadConfig("")
	assert.Error(t, err)
}

// TestLoadConfigDotEnv verifies the dotenv file is read and the real
// environment still wins
func TestLoadConfigDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PAIRDIST_STRATEGY=greedy\nPAIRDIST_LOG_FORMAT=json\n"), 0o600))

	t.Setenv("PAIRDIST_LOG_FORMAT", "console")
	// godotenv sets variables process-wide; register cleanup for the one it adds
	t.Setenv("PAIRDIST_STRATEGY", "")
	require.NoError(t, os.Unsetenv("PAIRDIST_STRATEGY"))

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "greedy", cfg.Strategy)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadConfigMissingDotEnv(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestParseFlags(t *testing.T) {
	base := defaultConfig(t)
	base.Strategy = "greedy"

	cfg, err := ParseFlags(base, []string{"-parallel", "-legacy-labels", "-log-level", "warn", "data.txt"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "data.txt", cfg.InputPath)
	assert.Equal(t, "greedy", cfg.Strategy, "unset flags keep the env value")
	assert.True(t, cfg.Parallel)
	assert.True(t, cfg.LegacyLabels)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParseFlags_Override(t *testing.T) {
	base := defaultConfig(t)
	base.Strategy = "greedy"

	cfg, err := ParseFlags(base, []string{"-strategy", "sorted", "-input", "other.txt"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "sorted", cfg.Strategy)
	assert.Equal(t, "other.txt", cfg.InputPath)
}

func TestParseFlags_Unknown(t *testing.T) {
	_, err := ParseFlags(defaultConfig(t), []string{"-bogus"}, io.Discard)
	assert.Error(t, err)
}

func TestIsParquet(t *testing.T) {
	assert.True(t, IsParquet("a/b.parquet"))
	assert.True(t, IsParquet("B.PARQUET"))
	assert.False(t, IsParquet("puzzle.txt"))
	assert.False(t, IsParquet("parquet"))
}
