package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/23skdu/pairdist/internal/analytics"
	"github.com/23skdu/pairdist/internal/distance"
	perrors "github.com/23skdu/pairdist/internal/errors"
	"github.com/23skdu/pairdist/internal/logging"
	"github.com/23skdu/pairdist/internal/metrics"
	"github.com/23skdu/pairdist/internal/puzzle"
	"github.com/23skdu/pairdist/internal/report"
	"github.com/23skdu/pairdist/internal/storage"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := LoadConfig(".env")
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	cfg, err = ParseFlags(cfg, args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}
	if err := ValidateConfig(&cfg); err != nil {
		_, _ = fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 1
	}

	logger, err := logging.NewLogger(logging.Config{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
		Output: stderr,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "failed to create logger: %v\n", err)
		return 1
	}

	err = execute(ctx, cfg, logger, stdout)
	if mErr := metrics.WriteTextfile(cfg.MetricsTextfile); mErr != nil {
		logger.Warn().Err(mErr).Str("path", cfg.MetricsTextfile).Msg("Failed to write metrics textfile")
	}
	if err != nil {
		logFailure(logger, err)
		return 1
	}
	return 0
}

// logFailure logs err with its type and context fields, such as the line of a
// malformed record or the unmatched left value.
func logFailure(logger zerolog.Logger, err error) {
	event := logger.Error().Err(err)
	var se *perrors.StructuredError
	if errors.As(err, &se) {
		event = event.Str("type", string(se.Type)).Fields(se.Context)
	}
	event.Msg("pairdist failed")
}

func execute(ctx context.Context, cfg Config, logger zerolog.Logger, stdout io.Writer) error {
	strategy, err := distance.ParseStrategy(cfg.Strategy)
	if err != nil {
		return perrors.WrapConfigurationError(err, "execute", "invalid strategy")
	}

	p, err := loadPuzzle(cfg.InputPath)
	if err != nil {
		return err
	}
	logger.Info().Str("input", cfg.InputPath).Int("pairs", p.Len()).Msg("Puzzle loaded")

	if cfg.SnapshotPath != "" {
		if err := storage.SavePuzzle(cfg.SnapshotPath, p); err != nil {
			return err
		}
		logger.Info().Str("path", cfg.SnapshotPath).Msg("Snapshot written")
	}

	res, err := report.Compute(ctx, p, report.Options{
		Strategy: strategy,
		Parallel: cfg.Parallel,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if cfg.Verify {
		if err := verify(ctx, cfg, p, res, logger); err != nil {
			return err
		}
	}

	return report.Write(stdout, res, cfg.LegacyLabels)
}

func loadPuzzle(path string) (*puzzle.Puzzle, error) {
	var (
		p   *puzzle.Puzzle
		err error
	)
	if IsParquet(path) {
		p, err = storage.LoadPuzzle(path)
	} else {
		p, err = puzzle.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// verify reads a Parquet copy of the puzzle back through DuckDB and
// recomputes the metrics there.
func verify(ctx context.Context, cfg Config, p *puzzle.Puzzle, res report.Result, logger zerolog.Logger) error {
	path := cfg.SnapshotPath
	switch {
	case path != "":
	case IsParquet(cfg.InputPath):
		path = cfg.InputPath
	default:
		dir, err := os.MkdirTemp("", "pairdist-verify-*")
		if err != nil {
			return perrors.WrapStorageError(err, "verify", "failed to create temp dir")
		}
		defer func() { _ = os.RemoveAll(dir) }()

		path = filepath.Join(dir, "puzzle.parquet")
		if err := storage.SavePuzzle(path, p); err != nil {
			return err
		}
	}

	want := analytics.Metrics{Distance: res.Distance, Similarity: res.Similarity}
	if err := analytics.NewDuckDBAdapter().Verify(ctx, path, p, want); err != nil {
		return err
	}
	logger.Info().Str("snapshot", path).Msg("Results verified with DuckDB")
	return nil
}
