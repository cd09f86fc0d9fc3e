package main

import (
	"errors"
	"flag"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/23skdu/pairdist/internal/distance"
)

const envPrefix = "PAIRDIST"

// Config validation errors
var (
	ErrInvalidInputPath = errors.New("input_path cannot be empty")
	ErrInvalidStrategy  = errors.New("strategy must be 'sorted' or 'greedy'")
	ErrInvalidLogFormat = errors.New("log_format must be 'json' or 'console'")
	ErrInvalidLogLevel  = errors.New("log_level must be debug, info, warn, or error")
)

// Config holds the runtime configuration, read from PAIRDIST_* variables and
// overridden by command line flags. Defaults live only in the struct tags.
type Config struct {
	InputPath       string `envconfig:"INPUT_PATH" default:"puzzle.txt"`
	Strategy        string `envconfig:"STRATEGY" default:"sorted"`
	Parallel        bool   `envconfig:"PARALLEL" default:"false"`
	LegacyLabels    bool   `envconfig:"LEGACY_LABELS" default:"false"`
	SnapshotPath    string `envconfig:"SNAPSHOT_PATH" default:""`
	Verify          bool   `envconfig:"VERIFY" default:"false"`
	MetricsTextfile string `envconfig:"METRICS_TEXTFILE" default:""`
	LogFormat       string `envconfig:"LOG_FORMAT" default:"console"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig reads the optional dotenv file and then the environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseFlags applies command line flags on top of cfg.
func ParseFlags(cfg Config, args []string, output io.Writer) (Config, error) {
	fset := flag.NewFlagSet("pairdist", flag.ContinueOnError)
	fset.SetOutput(output)

	fset.StringVar(&cfg.InputPath, "input", cfg.InputPath, "Puzzle file to load (.parquet or text)")
	fset.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "Distance pairing strategy: sorted or greedy")
	fset.BoolVar(&cfg.Parallel, "parallel", cfg.Parallel, "Compute both metrics concurrently")
	fset.BoolVar(&cfg.LegacyLabels, "legacy-labels", cfg.LegacyLabels, "Label both result lines 'Total distances'")
	fset.StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "Write the loaded puzzle to this Parquet file")
	fset.BoolVar(&cfg.Verify, "verify", cfg.Verify, "Cross-check the results with DuckDB")
	fset.StringVar(&cfg.MetricsTextfile, "metrics-textfile", cfg.MetricsTextfile, "Write Prometheus metrics to this file on exit")
	fset.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: json or console")
	fset.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")

	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}
	if fset.NArg() > 0 {
		cfg.InputPath = fset.Arg(0)
	}
	return cfg, nil
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	if cfg.InputPath == "" {
		return ErrInvalidInputPath
	}
	if _, err := distance.ParseStrategy(cfg.Strategy); err != nil || cfg.Strategy == "" {
		return ErrInvalidStrategy
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return ErrInvalidLogFormat
	}
	if cfg.LogLevel != "debug" && cfg.LogLevel != "info" && cfg.LogLevel != "warn" && cfg.LogLevel != "error" {
		return ErrInvalidLogLevel
	}
	return nil
}

// IsParquet reports whether path names a Parquet file.
func IsParquet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".parquet")
}
