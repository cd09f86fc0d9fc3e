package storage

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/parquet-go/parquet-go"

	perrors "github.com/23skdu/pairdist/internal/errors"
	"github.com/23skdu/pairdist/internal/metrics"
	"github.com/23skdu/pairdist/internal/puzzle"
)

// PairRecord is one left/right row of a Parquet snapshot.
type PairRecord struct {
	Left  uint32 `parquet:"left"`
	Right uint32 `parquet:"right"`
}

// WritePuzzle writes p as a zstd-compressed Parquet file to w.
func WritePuzzle(w io.Writer, mem memory.Allocator, p *puzzle.Puzzle) error {
	rec, err := ToRecord(mem, p)
	if err != nil {
		return err
	}
	defer rec.Release()

	return writeParquet(w, rec)
}

// SavePuzzle writes p to a Parquet file at path.
func SavePuzzle(path string, p *puzzle.Puzzle) error {
	f, err := os.Create(path)
	if err != nil {
		return perrors.WrapStorageError(err, "save_snapshot", "failed to create snapshot").
			WithContext("path", path)
	}

	if err := WritePuzzle(f, memory.NewGoAllocator(), p); err != nil {
		_ = f.Close()
		return perrors.WrapStorageError(err, "save_snapshot", "failed to write snapshot").
			WithContext("path", path)
	}
	if err := f.Close(); err != nil {
		return perrors.WrapStorageError(err, "save_snapshot", "failed to close snapshot").
			WithContext("path", path)
	}
	return nil
}

// writeParquet writes one or more Arrow records to a Parquet writer.
// It uses a single parquet.Writer to ensure a valid file with one footer.
// Records must carry uint32 left and right columns.
func writeParquet(w io.Writer, records ...arrow.Record) error {
	pw := parquet.NewGenericWriter[PairRecord](w, parquet.Compression(&parquet.Zstd))
	closed := false
	defer func() {
		// Best effort close on early return
		if !closed {
			_ = pw.Close()
		}
	}()

	for _, rec := range records {
		if rec.NumRows() == 0 {
			continue
		}

		leftIdx, rightIdx := columnIndex(rec.Schema(), leftColumn, 0), columnIndex(rec.Schema(), rightColumn, 1)
		leftCol, ok := rec.Column(leftIdx).(*array.Uint32)
		if !ok {
			return fmt.Errorf("left column must be uint32, got %s", rec.Column(leftIdx).DataType())
		}
		rightCol, ok := rec.Column(rightIdx).(*array.Uint32)
		if !ok {
			return fmt.Errorf("right column must be uint32, got %s", rec.Column(rightIdx).DataType())
		}

		rows := make([]PairRecord, rec.NumRows())
		for i := range rows {
			rows[i] = PairRecord{Left: leftCol.Value(i), Right: rightCol.Value(i)}
		}
		if _, err := pw.Write(rows); err != nil {
			return err
		}
	}

	start := time.Now()
	closed = true
	err := pw.Close()
	if err == nil {
		metrics.SnapshotWriteDurationSeconds.Observe(time.Since(start).Seconds())
		if fi, ok := w.(interface{ Stat() (os.FileInfo, error) }); ok {
			if stat, err := fi.Stat(); err == nil {
				metrics.SnapshotSizeBytes.Observe(float64(stat.Size()))
			}
		}
	}
	return err
}

// ReadPuzzle decodes a Parquet puzzle from r.
func ReadPuzzle(r io.ReaderAt, size int64) (*puzzle.Puzzle, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, err
	}

	pr := parquet.NewGenericReader[PairRecord](pf)
	defer func() { _ = pr.Close() }()

	rows := make([]PairRecord, pr.NumRows())
	n, err := pr.Read(rows)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if n != len(rows) {
		return nil, fmt.Errorf("short read: got %d of %d rows", n, len(rows))
	}

	p := &puzzle.Puzzle{
		Left:  make([]uint32, len(rows)),
		Right: make([]uint32, len(rows)),
	}
	for i, row := range rows {
		p.Left[i] = row.Left
		p.Right[i] = row.Right
	}
	return p, nil
}

// LoadPuzzle reads the Parquet file at path.
func LoadPuzzle(path string) (*puzzle.Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		metrics.LoadErrorsTotal.WithLabelValues(string(perrors.ErrorTypeStorage)).Inc()
		return nil, perrors.WrapStorageError(err, "load_parquet", "failed to open input").
			WithContext("path", path)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		metrics.LoadErrorsTotal.WithLabelValues(string(perrors.ErrorTypeStorage)).Inc()
		return nil, perrors.WrapStorageError(err, "load_parquet", "failed to stat input").
			WithContext("path", path)
	}

	p, err := ReadPuzzle(f, stat.Size())
	if err != nil {
		metrics.LoadErrorsTotal.WithLabelValues(string(perrors.ErrorTypeStorage)).Inc()
		return nil, perrors.WrapStorageError(err, "load_parquet", "failed to decode input").
			WithContext("path", path)
	}
	metrics.PairsLoadedTotal.WithLabelValues("parquet").Add(float64(p.Len()))
	return p, nil
}
