// Package similarity computes the similarity score of a puzzle: every left
// value weighted by how often it occurs in the right column.
package similarity

import "github.com/23skdu/pairdist/internal/puzzle"

// Score returns the sum over Left of value * occurrences in Right, with
// duplicates on the left counted separately. It is 0 when either column is
// empty. The sum is uint64 and wraps on overflow.
func Score(p *puzzle.Puzzle) uint64 {
	if len(p.Left) == 0 || len(p.Right) == 0 {
		return 0
	}

	counts := Occurrences(p.Right)
	var total uint64
	for _, v := range p.Left {
		total += uint64(v) * counts[v]
	}
	return total
}

// Occurrences counts how many times each value appears in values.
func Occurrences(values []uint32) map[uint32]uint64 {
	counts := make(map[uint32]uint64, len(values))
	for _, v := range values {
		counts[v]++
	}
	return counts
}
