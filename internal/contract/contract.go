// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/fairprice/schema"
)

// TableLoader reads an observation table from a dataset location.
// This allows the orchestration to be tested without files on disk.
type TableLoader interface {
	// LoadTable returns every row of the dataset at path.
	LoadTable(ctx context.Context, path string) (schema.Table, error)
}

// HistoryManager defines the interface for managing the run history store.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking runs and storing their results.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalProducts int) error

	// RecordScenarioResults stores the scenario results of one product
	RecordScenarioResults(runID int64, analysis schema.ProductAnalysis, analysisTime time.Time) error

	// RecordSegmentCells stores the segmentation matrix of one product
	RecordSegmentCells(runID int64, productID string, matrix schema.SegmentMatrix, analysisTime time.Time) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves all runs from the store
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllScenarioResults retrieves all scenario results from the store
	GetAllScenarioResults() ([]schema.ScenarioResultRecord, error)

	// GetAllSegmentCells retrieves all segmentation cells from the store
	GetAllSegmentCells() ([]schema.SegmentCellRecord, error)

	// Close closes the underlying connection
	Close() error
}
