// Package distance computes the total distance between the two columns of a
// puzzle: the sum of absolute differences once each left value is paired with
// a right value in ascending order.
package distance

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	perrors "github.com/23skdu/pairdist/internal/errors"
	"github.com/23skdu/pairdist/internal/puzzle"
)

// ErrExhausted is returned when a left value finds no right value left to pair with.
var ErrExhausted = errors.New("right values exhausted")

// Strategy selects the pairing algorithm.
type Strategy string

const (
	// StrategySorted sorts copies of both columns and pairs them by index.
	StrategySorted Strategy = "sorted"
	// StrategyGreedy walks the sorted left column and, for each value, takes the
	// smallest right occurrence not consumed yet.
	StrategyGreedy Strategy = "greedy"
)

// ParseStrategy maps a config value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case StrategySorted, "":
		return StrategySorted, nil
	case StrategyGreedy:
		return StrategyGreedy, nil
	default:
		return "", fmt.Errorf("unknown distance strategy %q", s)
	}
}

// TotalDistance computes the total distance with StrategySorted.
func TotalDistance(p *puzzle.Puzzle) (uint64, error) {
	return Compute(p, StrategySorted)
}

// Compute computes the total distance with the given strategy. Both
// strategies return the same value for every input. The puzzle is not
// modified.
func Compute(p *puzzle.Puzzle, s Strategy) (uint64, error) {
	switch s {
	case StrategySorted, "":
		return sortedDistance(p)
	case StrategyGreedy:
		return greedyDistance(p)
	default:
		return 0, perrors.NewValidationError("total_distance", fmt.Sprintf("unknown strategy %q", s))
	}
}

func sortedDistance(p *puzzle.Puzzle) (uint64, error) {
	left := slices.Clone(p.Left)
	right := slices.Clone(p.Right)
	slices.Sort(left)
	slices.Sort(right)

	var total uint64
	for i, l := range left {
		if i >= len(right) {
			return 0, exhausted(l)
		}
		total += absDiff(l, right[i])
	}
	return total, nil
}

func greedyDistance(p *puzzle.Puzzle) (uint64, error) {
	left := slices.Clone(p.Left)
	slices.Sort(left)

	// positions of p.Right already paired; each occurrence of a duplicate is
	// its own position, so it can be consumed at most once
	consumed := roaring.New()

	var total uint64
	for _, l := range left {
		best := -1
		for i, r := range p.Right {
			if consumed.Contains(uint32(i)) {
				continue
			}
			if best == -1 || r < p.Right[best] {
				best = i
			}
		}
		if best == -1 {
			return 0, exhausted(l)
		}
		consumed.Add(uint32(best))
		total += absDiff(l, p.Right[best])
	}
	return total, nil
}

func exhausted(left uint32) error {
	return perrors.WrapComputationError(ErrExhausted, "total_distance",
		fmt.Sprintf("could not find a right value for left value %d", left)).
		WithContext("left_value", left)
}

func absDiff(a, b uint32) uint64 {
	if a > b {
		return uint64(a - b)
	}
	return uint64(b - a)
}
