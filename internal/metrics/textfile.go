package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile dumps every collector in the default registry to path in the
// node_exporter textfile format. An empty path is a no-op.
func WriteTextfile(path string) error {
	return writeTextfile(path, prometheus.DefaultGatherer)
}

func writeTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, g)
}
