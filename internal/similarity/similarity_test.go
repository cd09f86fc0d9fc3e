package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/23skdu/pairdist/internal/puzzle"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		left  []uint32
		right []uint32
		want  uint64
	}{
		{"both empty", []uint32{}, []uint32{}, 0},
		{"left empty", []uint32{}, []uint32{1, 2}, 0},
		{"right empty", []uint32{1, 2}, []uint32{}, 0},
		{"no value in common", []uint32{1, 2}, []uint32{3, 4}, 0},
		{"value counted per occurrence", []uint32{4}, []uint32{4, 4}, 8},
		{"two values", []uint32{4, 1}, []uint32{4, 1}, 5},
		{"left duplicates counted separately", []uint32{3, 3}, []uint32{3}, 6},
		{"zero contributes nothing", []uint32{0, 0}, []uint32{0, 0}, 0},
		{"sample", []uint32{3, 4, 2, 1, 3, 3}, []uint32{4, 3, 5, 3, 9, 3}, 31},
		{"large values", []uint32{4294967295}, []uint32{4294967295, 4294967295}, 2 * 4294967295},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(&puzzle.Puzzle{Left: tt.left, Right: tt.right}))
		})
	}
}

func TestScore_DoesNotMutatePuzzle(t *testing.T) {
	p := &puzzle.Puzzle{Left: []uint32{3, 1}, Right: []uint32{1, 3, 3}}
	orig := p.Clone()
	Score(p)
	assert.Equal(t, orig, p)
}

func TestScore_OrderIndependent(t *testing.T) {
	a := Score(&puzzle.Puzzle{Left: []uint32{1, 2, 3}, Right: []uint32{3, 2, 2}})
	b := Score(&puzzle.Puzzle{Left: []uint32{3, 1, 2}, Right: []uint32{2, 3, 2}})
	assert.Equal(t, uint64(7), a)
	assert.Equal(t, a, b)
}

func TestOccurrences(t *testing.T) {
	assert.Equal(t, map[uint32]uint64{3: 3, 4: 1, 5: 1, 9: 1}, Occurrences([]uint32{4, 3, 5, 3, 9, 3}))
	assert.Empty(t, Occurrences(nil))
}
