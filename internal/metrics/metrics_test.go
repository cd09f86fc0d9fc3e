package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsInitialization(t *testing.T) {
	assert.NotNil(t, PairsLoadedTotal)
	assert.NotNil(t, LoadErrorsTotal)
	assert.NotNil(t, ComputationsTotal)
	assert.NotNil(t, ComputationDurationSeconds)
	assert.NotNil(t, SnapshotWriteDurationSeconds)
	assert.NotNil(t, SnapshotSizeBytes)
	assert.NotNil(t, VerificationsTotal)
	assert.NotNil(t, LogEntriesTotal)
}

func TestComputationsTotal_Increments(t *testing.T) {
	c := ComputationsTotal.WithLabelValues("distance", "ok")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_pairs_total",
		Help: "test counter",
	})
	reg.MustRegister(counter)
	counter.Add(6)

	path := filepath.Join(t.TempDir(), "pairdist.prom")
	require.NoError(t, writeTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "test_pairs_total 6")
}

func TestWriteTextfile_EmptyPath(t *testing.T) {
	assert.NoError(t, WriteTextfile(""))
}
