// Package telemetry keeps Prometheus counters for fairprice runs and writes
// them in the node_exporter textfile format.
package telemetry

import (
	"fmt"
	"time"

	"github.com/huangsam/fairprice/schema"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RunsTotal counts executed commands by command name and status.
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairprice_runs_total",
			Help: "Total number of fairprice commands executed",
		},
		[]string{"command", "status"},
	)

	// RunDuration records the wall time of each command.
	RunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fairprice_run_duration_seconds",
			Help:    "Duration of fairprice commands in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"command"},
	)

	// ProductsAnalyzed counts products pushed through the full pipeline.
	ProductsAnalyzed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fairprice_products_analyzed_total",
		Help: "Total number of products analyzed",
	})

	// GuardrailOutcomes counts scenario results by guardrail reason.
	GuardrailOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairprice_guardrail_outcomes_total",
			Help: "Scenario guardrail outcomes by reason",
		},
		[]string{"reason"},
	)

	// UndefinedCells counts segmentation cells without a defined elasticity.
	UndefinedCells = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fairprice_undefined_cells_total",
		Help: "Total number of segmentation cells with undefined elasticity",
	})

	// RowsLoaded counts observations loaded from datasets.
	RowsLoaded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fairprice_rows_loaded_total",
		Help: "Total number of dataset rows loaded",
	})
)

// Registry holds only fairprice collectors so textfile output stays small.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		RunsTotal,
		RunDuration,
		ProductsAnalyzed,
		GuardrailOutcomes,
		UndefinedCells,
		RowsLoaded,
	)
}

// ObserveRun records one command execution.
func ObserveRun(command string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	RunsTotal.WithLabelValues(command, status).Inc()
	RunDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// ObserveRows records loaded dataset rows.
func ObserveRows(n int) {
	RowsLoaded.Add(float64(n))
}

// ObserveAnalysis records the outcome of one product analysis.
func ObserveAnalysis(analysis schema.ProductAnalysis) {
	ProductsAnalyzed.Inc()
	for _, cell := range analysis.Matrix {
		if !cell.Defined() {
			UndefinedCells.Inc()
		}
	}
	for _, result := range analysis.Scenarios {
		GuardrailOutcomes.WithLabelValues(string(result.Reason)).Inc()
	}
}

// WriteTextfile writes every collector to path in the textfile collector format.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
