package history

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/internal/parquet"
)

// ExportHistory writes every history table of the store to Parquet files
// named after outputFile.
func ExportHistory(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	scenarios, err := store.GetAllScenarioResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve scenario results: %w", err)
	}
	cells, err := store.GetAllSegmentCells()
	if err != nil {
		return fmt.Errorf("failed to retrieve segment cells: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	scenariosFile := outputFile + ".scenario_results.parquet"
	if err := parquet.WriteScenarioResultsParquet(parquet.ConvertScenarioResultRecords(scenarios), scenariosFile); err != nil {
		return fmt.Errorf("failed to write scenario results: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d scenario results to: %s\n", len(scenarios), scenariosFile)

	cellsFile := outputFile + ".segment_cells.parquet"
	if err := parquet.WriteSegmentCellsParquet(parquet.ConvertSegmentCellRecords(cells), cellsFile); err != nil {
		return fmt.Errorf("failed to write segment cells: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d segment cells to: %s\n", len(cells), cellsFile)

	return nil
}
