package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	staffingTariffMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "staffing",
		Subsystem: "tariff",
		Name:      "misses_total",
		Help:      "Total number of tariff lookups that found no entry.",
	})

	staffingRejectedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staffing",
		Subsystem: "hierarchy",
		Name:      "rejected_records_total",
		Help:      "Total number of position records excluded for having no ancestor path, by structure.",
	}, []string{"structure"})

	staffingBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "staffing",
		Subsystem: "hierarchy",
		Name:      "build_duration_seconds",
		Help:      "Time spent building and aggregating a hierarchy snapshot.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"structure", "result"})

	staffingSkippedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staffing",
		Subsystem: "export",
		Name:      "skipped_rows_total",
		Help:      "Total number of export rows skipped on conversion errors, by structure.",
	}, []string{"structure"})

	staffingExports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staffing",
		Subsystem: "export",
		Name:      "comparisons_total",
		Help:      "Total number of comparison exports by result.",
	}, []string{"result"})
)

func recordTariffMiss() {
	staffingTariffMisses.Inc()
}

func recordRejected(structure Structure, n int) {
	if n <= 0 {
		return
	}
	staffingRejectedRecords.WithLabelValues(string(structure)).Add(float64(n))
}

func recordBuild(structure Structure, started time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	staffingBuildDuration.WithLabelValues(string(structure), result).Observe(time.Since(started).Seconds())
}

func recordSkippedRows(structure Structure, n int) {
	if n <= 0 {
		return
	}
	staffingSkippedRows.WithLabelValues(string(structure)).Add(float64(n))
}

func recordExport(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	staffingExports.WithLabelValues(result).Inc()
}
