package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsScanned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secsweep_records_scanned_total",
		Help: "Total number of records read, labelled by source.",
	}, []string{"source"})

	RowsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secsweep_rows_skipped_total",
		Help: "Total number of malformed rows skipped, labelled by source.",
	}, []string{"source"})

	Verdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secsweep_verdicts_total",
		Help: "Total number of verdicts produced, labelled by risk tier.",
	}, []string{"tier"})

	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secsweep_runs_total",
		Help: "Total number of sweep runs, labelled by outcome.",
	}, []string{"status"})

	LastRunTime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "secsweep_last_run_timestamp_seconds",
		Help: "Unix time of the last completed sweep run.",
	})
)

// Flush writes the current metric state to a textfile-collector file.
// There is no metrics listener: runs are one-shot, so the node
// exporter (or anything else) picks the file up from disk.
func Flush(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
