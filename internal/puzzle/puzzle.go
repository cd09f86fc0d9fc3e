// Package puzzle holds the two-column dataset both metrics are computed over
// and the text loader that builds it.
package puzzle

import (
	"errors"
	"strconv"
	"strings"

	perrors "github.com/23skdu/pairdist/internal/errors"
)

var (
	// ErrMalformedLine is returned when a line carries fewer than two integers.
	ErrMalformedLine = errors.New("line must contain at least two non-negative integers")
	// ErrLengthMismatch is returned when left and right differ in length.
	ErrLengthMismatch = errors.New("left and right must have the same length")
)

// Puzzle is the pair of integer columns read from one input. Duplicates are
// significant. Once loaded a Puzzle is treated as read-only.
type Puzzle struct {
	Left  []uint32
	Right []uint32
}

// New returns an empty Puzzle.
func New() *Puzzle {
	return &Puzzle{
		Left:  []uint32{},
		Right: []uint32{},
	}
}

// AddLine parses one record and appends its first two integer tokens to
// Left and Right. Tokens that are not non-negative 32-bit integers are
// skipped before the two values are picked, and anything after them is
// ignored. A token may carry one leading plus sign ("+5").
func (p *Puzzle) AddLine(line string) error {
	var values [2]uint32
	n := 0
	for _, tok := range strings.Fields(line) {
		v, ok := parseValue(tok)
		if !ok {
			continue
		}
		values[n] = v
		n++
		if n == len(values) {
			break
		}
	}
	if n < len(values) {
		return perrors.WrapValidationError(ErrMalformedLine, "add_line", "not enough integers").
			WithContext("found", n)
	}

	p.Left = append(p.Left, values[0])
	p.Right = append(p.Right, values[1])
	return nil
}

func parseValue(tok string) (uint32, bool) {
	// a lone "+" or "+-1" must still fail
	if len(tok) > 1 && tok[0] == '+' && tok[1] >= '0' && tok[1] <= '9' {
		tok = tok[1:]
	}
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// Len returns the number of pairs.
func (p *Puzzle) Len() int {
	return len(p.Left)
}

// Validate checks the equal-length invariant.
func (p *Puzzle) Validate() error {
	if len(p.Left) != len(p.Right) {
		return perrors.WrapValidationError(ErrLengthMismatch, "validate", "column lengths differ").
			WithContext("left", len(p.Left)).
			WithContext("right", len(p.Right))
	}
	return nil
}

// Clone returns a deep copy.
func (p *Puzzle) Clone() *Puzzle {
	return &Puzzle{
		Left:  append([]uint32(nil), p.Left...),
		Right: append([]uint32(nil), p.Right...),
	}
}
