package storage

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/23skdu/pairdist/internal/puzzle"
)

const (
	leftColumn  = "left"
	rightColumn = "right"
)

// PuzzleSchema is the Arrow schema of a puzzle: two non-nullable uint32 columns.
var PuzzleSchema = arrow.NewSchema(
	[]arrow.Field{
		{Name: leftColumn, Type: arrow.PrimitiveTypes.Uint32},
		{Name: rightColumn, Type: arrow.PrimitiveTypes.Uint32},
	},
	nil,
)

// ToRecord builds an Arrow record from p. The caller must Release it.
func ToRecord(mem memory.Allocator, p *puzzle.Puzzle) (arrow.Record, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	b := array.NewRecordBuilder(mem, PuzzleSchema)
	defer b.Release()

	b.Field(0).(*array.Uint32Builder).AppendValues(p.Left, nil)
	b.Field(1).(*array.Uint32Builder).AppendValues(p.Right, nil)

	return b.NewRecord(), nil
}

// FromRecord copies the left and right columns of rec into a Puzzle.
// Columns are found by name, falling back to positions 0 and 1.
func FromRecord(rec arrow.Record) (*puzzle.Puzzle, error) {
	leftIdx, rightIdx := columnIndex(rec.Schema(), leftColumn, 0), columnIndex(rec.Schema(), rightColumn, 1)
	if leftIdx >= int(rec.NumCols()) || rightIdx >= int(rec.NumCols()) {
		return nil, fmt.Errorf("record has %d columns, need left and right", rec.NumCols())
	}

	left, err := uint32Values(rec.Column(leftIdx))
	if err != nil {
		return nil, fmt.Errorf("left column: %w", err)
	}
	right, err := uint32Values(rec.Column(rightIdx))
	if err != nil {
		return nil, fmt.Errorf("right column: %w", err)
	}

	p := &puzzle.Puzzle{Left: left, Right: right}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func columnIndex(schema *arrow.Schema, name string, fallback int) int {
	if idx := schema.FieldIndices(name); len(idx) > 0 {
		return idx[0]
	}
	return fallback
}

func uint32Values(col arrow.Array) ([]uint32, error) {
	if col.NullN() > 0 {
		return nil, fmt.Errorf("%d null values", col.NullN())
	}
	switch arr := col.(type) {
	case *array.Uint32:
		return append([]uint32(nil), arr.Uint32Values()...), nil
	case *array.Int32:
		out := make([]uint32, arr.Len())
		for i, v := range arr.Int32Values() {
			if v < 0 {
				return nil, fmt.Errorf("negative value %d at row %d", v, i)
			}
			out[i] = uint32(v)
		}
		return out, nil
	case *array.Int64:
		out := make([]uint32, arr.Len())
		for i, v := range arr.Int64Values() {
			if v < 0 || v > int64(^uint32(0)) {
				return nil, fmt.Errorf("value %d at row %d out of range", v, i)
			}
			out[i] = uint32(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported column type: %s", col.DataType())
	}
}
