// Package parquet reads and writes fairprice datasets and run history as
// Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/fairprice/schema"
	"github.com/parquet-go/parquet-go"
)

// ObservationRow is the Parquet shape of one dataset row.
// Column names match the CSV header.
type ObservationRow struct {
	Date            string   `parquet:"date,snappy"`
	ProductID       string   `parquet:"product_id,snappy,dict"`
	ProductType     string   `parquet:"product_type,snappy,dict"`
	Price           float64  `parquet:"price,snappy"`
	DiscountPct     float64  `parquet:"discount_pct,snappy"`
	EffectivePrice  float64  `parquet:"effective_price,snappy"`
	CompetitorPrice float64  `parquet:"competitor_price,snappy"`
	InterestScore   float64  `parquet:"interest_score,snappy"`
	HesitationTime  float64  `parquet:"hesitation_time,snappy"`
	ScrollDepth     float64  `parquet:"scroll_depth,snappy"`
	RevisitScore    float64  `parquet:"revisit_score,snappy"`
	AddToCartRate   float64  `parquet:"add_to_cart_rate,snappy"`
	DiscountPref    float64  `parquet:"discount_pref,snappy"`
	QualityScore    float64  `parquet:"quality_score,snappy"`
	BrandScore      float64  `parquet:"brand_score,snappy"`
	PerceivedValue  float64  `parquet:"perceived_value,snappy"`
	SeasonFactor    float64  `parquet:"season_factor,snappy"`
	Demand          float64  `parquet:"demand,snappy"`
	Revenue         float64  `parquet:"revenue,snappy"`
	VPS             *float64 `parquet:"vps,optional,snappy"` // absent until scored
}

// Run represents a single fairprice run with metadata.
// This struct maps to the fairprice_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the globally unique identifier for this run
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalProducts is the number of products analyzed in this run
	TotalProducts int32 `parquet:"total_products,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ScenarioResult is one scenario outcome for one product in a run.
// This struct maps to the fairprice_scenario_results database table.
type ScenarioResult struct {
	RunID            int64     `parquet:"run_id,snappy"`
	ProductID        string    `parquet:"product_id,snappy,dict"`
	Scenario         string    `parquet:"scenario,snappy,dict"`
	AnalysisTime     time.Time `parquet:"analysis_time,snappy"`
	BasePrice        float64   `parquet:"base_price,snappy"`
	CandidatePrice   float64   `parquet:"candidate_price,snappy"`
	Reason           string    `parquet:"reason,snappy,dict"`
	PredictedDemand  int32     `parquet:"predicted_demand,snappy"`
	PredictedRevenue float64   `parquet:"predicted_revenue,snappy"`
}

// SegmentCell is one segmentation matrix cell for one product in a run.
// This struct maps to the fairprice_segment_cells database table.
type SegmentCell struct {
	RunID            int64     `parquet:"run_id,snappy"`
	ProductID        string    `parquet:"product_id,snappy,dict"`
	Segment          string    `parquet:"segment,snappy,dict"`
	CompetitorAction string    `parquet:"competitor_action,snappy,dict"`
	AnalysisTime     time.Time `parquet:"analysis_time,snappy"`
	Elasticity       *float64  `parquet:"elasticity,optional,snappy"` // nil when undefined
	CellRows         int32     `parquet:"cell_rows,snappy"`
}

// writeParquet writes rows of any struct type to a Parquet file.
// The schema is derived from the struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// readParquet reads every row of a Parquet file into a slice.
func readParquet[T any](inputPath string) ([]T, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows[:n], nil
}

// WriteObservationsParquet writes a dataset table to a Parquet file.
// The vps column is written only for scored tables.
func WriteObservationsParquet(table schema.Table, scored bool, outputPath string) error {
	return writeParquet(ConvertObservations(table, scored), outputPath)
}

// ReadObservationsParquet loads a dataset table from a Parquet file.
func ReadObservationsParquet(inputPath string) (schema.Table, error) {
	rows, err := readParquet[ObservationRow](inputPath)
	if err != nil {
		return nil, err
	}
	table := make(schema.Table, len(rows))
	for i, r := range rows {
		table[i] = schema.Observation{
			Date:            r.Date,
			ProductID:       r.ProductID,
			ProductType:     schema.Category(r.ProductType),
			Price:           r.Price,
			DiscountPct:     r.DiscountPct,
			EffectivePrice:  r.EffectivePrice,
			CompetitorPrice: r.CompetitorPrice,
			InterestScore:   r.InterestScore,
			HesitationTime:  r.HesitationTime,
			ScrollDepth:     r.ScrollDepth,
			RevisitScore:    r.RevisitScore,
			AddToCartRate:   r.AddToCartRate,
			DiscountPref:    r.DiscountPref,
			QualityScore:    r.QualityScore,
			BrandScore:      r.BrandScore,
			PerceivedValue:  r.PerceivedValue,
			SeasonFactor:    r.SeasonFactor,
			Demand:          r.Demand,
			Revenue:         r.Revenue,
		}
		if r.VPS != nil {
			table[i].VPS = *r.VPS
		}
	}
	return table, nil
}

// ConvertObservations converts a dataset table to Parquet rows.
func ConvertObservations(table schema.Table, scored bool) []ObservationRow {
	result := make([]ObservationRow, len(table))
	for i, o := range table {
		result[i] = ObservationRow{
			Date:            o.Date,
			ProductID:       o.ProductID,
			ProductType:     string(o.ProductType),
			Price:           o.Price,
			DiscountPct:     o.DiscountPct,
			EffectivePrice:  o.EffectivePrice,
			CompetitorPrice: o.CompetitorPrice,
			InterestScore:   o.InterestScore,
			HesitationTime:  o.HesitationTime,
			ScrollDepth:     o.ScrollDepth,
			RevisitScore:    o.RevisitScore,
			AddToCartRate:   o.AddToCartRate,
			DiscountPref:    o.DiscountPref,
			QualityScore:    o.QualityScore,
			BrandScore:      o.BrandScore,
			PerceivedValue:  o.PerceivedValue,
			SeasonFactor:    o.SeasonFactor,
			Demand:          o.Demand,
			Revenue:         o.Revenue,
		}
		if scored {
			vps := o.VPS
			result[i].VPS = &vps
		}
	}
	return result
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteScenarioResultsParquet writes a slice of ScenarioResult structs to a Parquet file.
func WriteScenarioResultsParquet(data []ScenarioResult, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSegmentCellsParquet writes a slice of SegmentCell structs to a Parquet file.
func WriteSegmentCellsParquet(data []SegmentCell, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteEnrichedScenariosParquet writes ranked scenario results for the parquet output mode.
func WriteEnrichedScenariosParquet(results []schema.EnrichedScenarioResult, basePrices map[string]float64, outputPath string) error {
	rows := make([]ScenarioResult, len(results))
	now := time.Now().UTC()
	for i, r := range results {
		rows[i] = ScenarioResult{
			ProductID:        r.ProductID,
			Scenario:         string(r.Scenario),
			AnalysisTime:     now,
			BasePrice:        basePrices[r.ProductID],
			CandidatePrice:   r.CandidatePrice,
			Reason:           string(r.Reason),
			PredictedDemand:  int32(r.PredictedDemand),
			PredictedRevenue: r.PredictedRevenue,
		}
	}
	return writeParquet(rows, outputPath)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			RunUUID:       record.RunUUID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalProducts: record.TotalProducts,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertScenarioResultRecords converts schema.ScenarioResultRecord to ScenarioResult for Parquet export.
func ConvertScenarioResultRecords(records []schema.ScenarioResultRecord) []ScenarioResult {
	result := make([]ScenarioResult, len(records))
	for i, record := range records {
		result[i] = ScenarioResult{
			RunID:            record.RunID,
			ProductID:        record.ProductID,
			Scenario:         record.Scenario,
			AnalysisTime:     record.AnalysisTime,
			BasePrice:        record.BasePrice,
			CandidatePrice:   record.CandidatePrice,
			Reason:           record.Reason,
			PredictedDemand:  record.PredictedDemand,
			PredictedRevenue: record.PredictedRevenue,
		}
	}
	return result
}

// ConvertSegmentCellRecords converts schema.SegmentCellRecord to SegmentCell for Parquet export.
func ConvertSegmentCellRecords(records []schema.SegmentCellRecord) []SegmentCell {
	result := make([]SegmentCell, len(records))
	for i, record := range records {
		result[i] = SegmentCell{
			RunID:            record.RunID,
			ProductID:        record.ProductID,
			Segment:          record.Segment,
			CompetitorAction: record.CompetitorAction,
			AnalysisTime:     record.AnalysisTime,
			Elasticity:       record.Elasticity,
			CellRows:         record.CellRows,
		}
	}
	return result
}
