// Package metrics exposes Prometheus collectors for assessment runs.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dqs_build_info",
			Help: "Build information of the data quality scorer",
		},
		[]string{"version", "commit", "date"},
	)

	DatasetsScoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dqs_datasets_scored_total",
			Help: "Total number of datasets scored",
		},
		[]string{"kind", "status"},
	)

	DimensionScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dqs_dimension_score",
			Help: "Latest dimension score per dataset kind; absent when not applicable",
		},
		[]string{"kind", "dimension"},
	)

	CompositeScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dqs_composite_score",
			Help: "Latest composite data quality score per dataset kind",
		},
		[]string{"kind"},
	)

	DatasetRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dqs_dataset_rows",
			Help: "Number of rows in the latest scored dataset per kind",
		},
		[]string{"kind"},
	)

	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dqs_scoring_duration_seconds",
			Help:    "Duration of scoring one dataset",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"kind"},
	)

	AssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dqs_assessments_total",
			Help: "Total number of assessments run",
		},
		[]string{"status"},
	)
)

// WriteTextfile dumps every registered metric to path in the text exposition
// format, for pickup by a node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
