// Package report runs the distance and similarity calculators over one loaded
// puzzle and renders their results.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/23skdu/pairdist/internal/distance"
	"github.com/23skdu/pairdist/internal/metrics"
	"github.com/23skdu/pairdist/internal/puzzle"
	"github.com/23skdu/pairdist/internal/similarity"
)

const (
	metricDistance   = "distance"
	metricSimilarity = "similarity"
)

// Options controls how Compute runs the calculators.
type Options struct {
	Strategy distance.Strategy
	// Parallel runs both calculators concurrently. They only read the puzzle.
	Parallel bool
	Logger   zerolog.Logger
}

// Result holds both metrics of one puzzle.
type Result struct {
	Distance   uint64
	Similarity uint64
}

// Compute runs both calculators against p. The first failure aborts the run.
func Compute(ctx context.Context, p *puzzle.Puzzle, opts Options) (Result, error) {
	var res Result

	calcDistance := func() error {
		return timed(opts.Logger, metricDistance, func() (uint64, error) {
			return distance.Compute(p, opts.Strategy)
		}, &res.Distance)
	}
	calcSimilarity := func() error {
		return timed(opts.Logger, metricSimilarity, func() (uint64, error) {
			return similarity.Score(p), nil
		}, &res.Similarity)
	}

	if !opts.Parallel {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if err := calcDistance(); err != nil {
			return Result{}, err
		}
		if err := calcSimilarity(); err != nil {
			return Result{}, err
		}
		return res, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, fn := range []func() error{calcDistance, calcSimilarity} {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			return fn()
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}

func timed(logger zerolog.Logger, metric string, fn func() (uint64, error), out *uint64) error {
	start := time.Now()
	v, err := fn()
	duration := time.Since(start)
	metrics.ComputationDurationSeconds.WithLabelValues(metric).Observe(duration.Seconds())

	if err != nil {
		metrics.ComputationsTotal.WithLabelValues(metric, "error").Inc()
		logger.Error().Err(err).Str("metric", metric).Dur("duration", duration).Msg("computation failed")
		return err
	}
	metrics.ComputationsTotal.WithLabelValues(metric, "ok").Inc()
	logger.Debug().Str("metric", metric).Uint64("value", v).Dur("duration", duration).Msg("computation completed")
	*out = v
	return nil
}

// Write prints one line per metric. With legacyLabels both lines use the
// "Total distances" label of the original tool.
func Write(w io.Writer, r Result, legacyLabels bool) error {
	distanceLabel, similarityLabel := "Total distance", "Similarity score"
	if legacyLabels {
		distanceLabel, similarityLabel = "Total distances", "Total distances"
	}
	if _, err := fmt.Fprintf(w, "%s : %d\n", distanceLabel, r.Distance); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s : %d\n", similarityLabel, r.Similarity)
	return err
}
