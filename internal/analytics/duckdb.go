// Package analytics recomputes the puzzle metrics in SQL over a Parquet
// snapshot so the Go results can be cross-checked.
package analytics

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"slices"
	"strings"

	duckdb "github.com/marcboeker/go-duckdb"

	perrors "github.com/23skdu/pairdist/internal/errors"
	"github.com/23skdu/pairdist/internal/metrics"
	"github.com/23skdu/pairdist/internal/puzzle"
	"github.com/23skdu/pairdist/internal/storage"
)

// ErrMismatch is returned by Verify when SQL and Go disagree.
var ErrMismatch = errors.New("sql cross-check does not match computed metrics")

// Metrics holds the two puzzle metrics.
type Metrics struct {
	Distance   uint64
	Similarity uint64
}

// puzzleSQL returns the columns with whatever integer type the file stores.
const puzzleSQL = `SELECT "left", "right" FROM puzzle`

// distanceSQL pairs both columns by rank after sorting each independently.
const distanceSQL = `
WITH l AS (SELECT "left" AS v, row_number() OVER (ORDER BY "left") AS rn FROM puzzle),
     r AS (SELECT "right" AS v, row_number() OVER (ORDER BY "right") AS rn FROM puzzle)
SELECT CAST(COALESCE(SUM(abs(CAST(l.v AS BIGINT) - CAST(r.v AS BIGINT))), 0) AS UBIGINT)
FROM l JOIN r ON l.rn = r.rn`

// similaritySQL weights every left value by its count in the right column.
const similaritySQL = `
WITH counts AS (SELECT "right" AS v, COUNT(*) AS n FROM puzzle GROUP BY "right")
SELECT CAST(COALESCE(SUM(CAST(p."left" AS UBIGINT) * counts.n), 0) AS UBIGINT)
FROM puzzle p JOIN counts ON p."left" = counts.v`

// DuckDBAdapter handles analytical queries on Parquet snapshots
type DuckDBAdapter struct{}

// NewDuckDBAdapter returns an adapter that opens a fresh in-memory database
// for every query.
func NewDuckDBAdapter() *DuckDBAdapter {
	return &DuckDBAdapter{}
}

// open starts an in-memory DuckDB with a "puzzle" view over the snapshot.
// The caller must call cleanup() when done.
func (d *DuckDBAdapter) open(ctx context.Context, op, parquetPath string) (*sql.Conn, *duckdb.Arrow, func(), error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, nil, nil, perrors.WrapStorageError(err, op, "failed to open duckdb")
	}

	// views live on a single connection
	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, nil, nil, perrors.WrapStorageError(err, op, "failed to open conn")
	}
	cleanup := func() {
		_ = conn.Close()
		_ = db.Close()
	}

	var ar *duckdb.Arrow
	err = conn.Raw(func(c interface{}) error {
		dc, ok := c.(driver.Conn)
		if !ok {
			return fmt.Errorf("not a duckdb driver connection")
		}
		var err error
		ar, err = duckdb.NewArrowFromConn(dc)
		return err
	})
	if err != nil {
		cleanup()
		return nil, nil, nil, perrors.WrapStorageError(err, op, "failed to init arrow")
	}

	createViewSQL := fmt.Sprintf("CREATE VIEW puzzle AS SELECT * FROM read_parquet('%s')", quoteLiteral(parquetPath))
	if _, err := conn.ExecContext(ctx, createViewSQL); err != nil {
		cleanup()
		return nil, nil, nil, perrors.WrapStorageError(err, op, "failed to create view for snapshot").
			WithContext("path", parquetPath)
	}
	return conn, ar, cleanup, nil
}

// QueryMetrics computes both metrics over the snapshot at parquetPath using an
// in-memory DuckDB.
func (d *DuckDBAdapter) QueryMetrics(ctx context.Context, parquetPath string) (Metrics, error) {
	conn, _, cleanup, err := d.open(ctx, "query_metrics", parquetPath)
	if err != nil {
		return Metrics{}, err
	}
	defer cleanup()

	var m Metrics
	if err := conn.QueryRowContext(ctx, distanceSQL).Scan(&m.Distance); err != nil {
		return Metrics{}, perrors.WrapComputationError(err, "query_metrics", "distance query failed")
	}
	if err := conn.QueryRowContext(ctx, similaritySQL).Scan(&m.Similarity); err != nil {
		return Metrics{}, perrors.WrapComputationError(err, "query_metrics", "similarity query failed")
	}
	return m, nil
}

// QueryPuzzle reads the snapshot back as Arrow record batches. Columns may be
// stored as any integer type that fits uint32.
func (d *DuckDBAdapter) QueryPuzzle(ctx context.Context, parquetPath string) (*puzzle.Puzzle, error) {
	_, ar, cleanup, err := d.open(ctx, "query_puzzle", parquetPath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	rdr, err := ar.QueryContext(ctx, puzzleSQL)
	if err != nil {
		return nil, perrors.WrapComputationError(err, "query_puzzle", "query execution failed")
	}
	defer rdr.Release()

	p := puzzle.New()
	for rdr.Next() {
		batch, err := storage.FromRecord(rdr.Record())
		if err != nil {
			return nil, perrors.WrapValidationError(err, "query_puzzle", "unusable snapshot columns").
				WithContext("path", parquetPath)
		}
		p.Left = append(p.Left, batch.Left...)
		p.Right = append(p.Right, batch.Right...)
	}
	if err := rdr.Err(); err != nil {
		return nil, perrors.WrapComputationError(err, "query_puzzle", "reading record batches failed")
	}
	return p, nil
}

// Verify reads the snapshot back, checks it holds exactly p, and compares the
// SQL metrics with want.
func (d *DuckDBAdapter) Verify(ctx context.Context, parquetPath string, p *puzzle.Puzzle, want Metrics) error {
	stored, err := d.QueryPuzzle(ctx, parquetPath)
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues("error").Inc()
		return err
	}
	if !slices.Equal(stored.Left, p.Left) || !slices.Equal(stored.Right, p.Right) {
		metrics.VerificationsTotal.WithLabelValues("mismatch").Inc()
		return perrors.WrapComputationError(ErrMismatch, "verify", "snapshot rows differ").
			WithContext("path", parquetPath).
			WithContext("sql_pairs", stored.Len()).
			WithContext("pairs", p.Len())
	}

	got, err := d.QueryMetrics(ctx, parquetPath)
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues("error").Inc()
		return err
	}
	if got != want {
		metrics.VerificationsTotal.WithLabelValues("mismatch").Inc()
		return perrors.WrapComputationError(ErrMismatch, "verify", "metrics differ").
			WithContext("sql_distance", got.Distance).
			WithContext("sql_similarity", got.Similarity).
			WithContext("distance", want.Distance).
			WithContext("similarity", want.Similarity)
	}
	metrics.VerificationsTotal.WithLabelValues("match").Inc()
	return nil
}

func quoteLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
