package puzzle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	perrors "github.com/23skdu/pairdist/internal/errors"
	"github.com/23skdu/pairdist/internal/metrics"
)

// MaxLineBytes is the longest input line Parse accepts.
const MaxLineBytes = 16 * 1024 * 1024

// Parse reads one record per line from r. The first malformed line aborts the
// whole load, and so does a line longer than MaxLineBytes.
func Parse(r io.Reader) (*Puzzle, error) {
	p := New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := p.AddLine(scanner.Text()); err != nil {
			var se *perrors.StructuredError
			if errors.As(err, &se) {
				se.Message = fmt.Sprintf("line %d: %s", lineNo, se.Message)
				se.WithContext("line", lineNo)
			}
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, perrors.WrapStorageError(err, "parse", "failed to read input").
			WithContext("line", lineNo)
	}
	return p, nil
}

// LoadFile reads and parses the text file at path.
func LoadFile(path string) (*Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		metrics.LoadErrorsTotal.WithLabelValues(string(perrors.ErrorTypeStorage)).Inc()
		return nil, perrors.WrapStorageError(err, "load_file", "failed to open input").
			WithContext("path", path)
	}
	defer func() { _ = f.Close() }()

	p, err := Parse(f)
	if err != nil {
		if typ, ok := perrors.TypeOf(err); ok {
			metrics.LoadErrorsTotal.WithLabelValues(string(typ)).Inc()
		}
		return nil, err
	}
	metrics.PairsLoadedTotal.WithLabelValues("text").Add(float64(p.Len()))
	return p, nil
}
