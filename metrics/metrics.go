// Package metrics provides Prometheus observability metrics for the staffing calculator.
// It includes Critical and Important metrics for business and operational visibility.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// OracleEvaluationsTotal counts staffing oracle evaluations by outcome status.
// A rising "failed" count means the queuing formula diverged for some cells.
var OracleEvaluationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sweep",
	Name:      "oracle_evaluations_total",
	Help:      "Staffing oracle evaluations by status (ok, failed)",
}, []string{"status"})

// CellsSkippedTotal counts degenerate cells skipped without an oracle call.
var CellsSkippedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sweep",
	Name:      "cells_skipped_total",
	Help:      "Demand cells skipped by reason (no_calls, no_handling_time)",
}, []string{"reason"})

// ScenariosEmittedTotal counts completed scenario result tables.
var ScenariosEmittedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "sweep",
	Name:      "scenarios_emitted_total",
	Help:      "Number of scenario result tables emitted",
})

// WeeklyFTE tracks the weekly FTE of the most recently aggregated scenario.
var WeeklyFTE = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "aggregator",
	Name:      "weekly_fte",
	Help:      "Weekly FTE of the most recently aggregated scenario; with concurrent sweeps the last writer wins",
})

// MaxHeadcountDays tracks the peak day of the most recently aggregated scenario.
var MaxHeadcountDays = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "aggregator",
	Name:      "max_headcount_days",
	Help:      "Peak-day headcount of the most recently aggregated scenario; with concurrent sweeps the last writer wins",
})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// SweepProgress is the progress fraction of the running sweep (0..1).
var SweepProgress = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "sweep",
	Name:      "progress_ratio",
	Help:      "Fraction of (scenario, cell) pairs visited by the current sweep; with concurrent sweeps the last writer wins",
})

// SweepDurationSeconds tracks time to run a whole sweep.
var SweepDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "sweep",
	Name:      "duration_seconds",
	Help:      "Time taken to run a full scenario sweep",
	Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
})

// OracleDurationSeconds tracks time spent in a single oracle call.
var OracleDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "sweep",
	Name:      "oracle_duration_seconds",
	Help:      "Time taken by one staffing oracle evaluation",
	Buckets:   []float64{0.000001, 0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01},
})

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total demand rows successfully parsed.
var ParserRecordsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total CSV interval rows successfully parsed",
})

// AxisTokensDroppedTotal counts scenario axis tokens that were not numbers.
var AxisTokensDroppedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "axis_tokens_dropped_total",
	Help:      "Scenario axis tokens dropped because they were not non-negative numbers",
})

// ParserDurationSeconds tracks time to parse input files.
var ParserDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to parse a demand CSV input file",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// =============================================================================
// Helper Functions
// =============================================================================

// activeSweeps counts sweeps between BeginSweep and EndSweep.
var activeSweeps atomic.Int64

// BeginSweep marks a sweep as running. The sweep gauges are reset only when
// no other sweep is in flight, so concurrent sweeps never zero each other's
// values. Every call must be paired with EndSweep.
func BeginSweep() {
	if activeSweeps.Add(1) == 1 {
		SweepProgress.Set(0)
		WeeklyFTE.Set(0)
		MaxHeadcountDays.Set(0)
	}
}

// EndSweep marks a sweep started with BeginSweep as done.
func EndSweep() {
	activeSweeps.Add(-1)
}
