package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colorext_jobs_processed_total",
		Help: "Total number of extraction jobs processed, by status",
	}, []string{"status"})

	JobProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "colorext_job_processing_duration_seconds",
		Help:    "Duration of the color extraction pipeline, by stage",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"stage"})

	ColorsExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "colorext_colors_extracted_total",
		Help: "Total number of dominant colors extracted across all jobs",
	})

	TimestampsPerJob = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "colorext_timestamps_per_job",
		Help:    "Number of timestamps requested per extraction job",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
	})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "colorext_active_workers",
		Help: "Number of currently active workers processing jobs",
	})

	RetryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colorext_retry_total",
		Help: "Total number of retries",
	}, []string{"attempt"})
)
