package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/fairprice/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() schema.Table {
	return schema.Table{
		{
			Date: "2023-01-31", ProductID: "P1", ProductType: schema.StandardCategory,
			Price: 52.1, DiscountPct: 4.5, EffectivePrice: 49.76, CompetitorPrice: 51.2,
			InterestScore: 0.61, HesitationTime: 11.4, ScrollDepth: 0.44, RevisitScore: 0.13,
			AddToCartRate: 0.0812, DiscountPref: 0.19, QualityScore: 0.62, BrandScore: 0.48,
			PerceivedValue: 0.589, SeasonFactor: 1, Demand: 1950, Revenue: 97032, VPS: 0.52,
		},
		{
			Date: "2023-02-28", ProductID: "P2", ProductType: schema.PremiumCategory,
			Price: 91, EffectivePrice: 91, CompetitorPrice: 88, InterestScore: 0.7,
			HesitationTime: 7, QualityScore: 0.85, BrandScore: 0.7, SeasonFactor: 1,
			Demand: 1180, Revenue: 107380, VPS: 0.71,
		},
	}
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"observation", new(ObservationRow), []string{"date", "product_id", "product_type", "effective_price", "competitor_price", "demand", "revenue", "vps"}},
		{"run", new(Run), []string{"run_id", "run_uuid", "start_time", "end_time", "run_duration_ms", "total_products", "config_params"}},
		{"scenario result", new(ScenarioResult), []string{"run_id", "product_id", "scenario", "analysis_time", "base_price", "candidate_price", "reason", "predicted_demand", "predicted_revenue"}},
		{"segment cell", new(SegmentCell), []string{"run_id", "product_id", "segment", "competitor_action", "analysis_time", "elasticity", "cell_rows"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, colName := range tt.columns {
				_, ok := s.Lookup(colName)
				assert.True(t, ok, "Column %s should exist in schema", colName)
			}
		})
	}
}

func TestObservationsRoundTrip(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "data.parquet")
	table := sampleTable()

	require.NoError(t, WriteObservationsParquet(table, true, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	loaded, err := ReadObservationsParquet(outputPath)
	require.NoError(t, err)
	assert.Equal(t, table, loaded)
}

func TestObservationsUnscoredOmitsVPS(t *testing.T) {
	rows := ConvertObservations(sampleTable(), false)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Nil(t, r.VPS)
	}

	outputPath := filepath.Join(t.TempDir(), "raw.parquet")
	require.NoError(t, WriteObservationsParquet(sampleTable(), false, outputPath))
	loaded, err := ReadObservationsParquet(outputPath)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Zero(t, loaded[0].VPS)
	assert.Equal(t, "P1", loaded[0].ProductID)
}

func TestReadObservationsParquet_MissingFile(t *testing.T) {
	_, err := ReadObservationsParquet(filepath.Join(t.TempDir(), "missing.parquet"))
	assert.Error(t, err)
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	start := time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	duration := int32(1500)
	params := `{"baseline":"majority"}`

	data := []Run{
		{RunID: 1, RunUUID: "a", StartTime: start, EndTime: &end, RunDurationMs: &duration, TotalProducts: 2, ConfigParams: &params},
		{RunID: 2, RunUUID: "b", StartTime: start},
	}
	require.NoError(t, WriteRunsParquet(data, outputPath))

	readData, err := readParquet[Run](outputPath)
	require.NoError(t, err)
	require.Len(t, readData, 2)

	assert.Equal(t, int64(1), readData[0].RunID)
	require.NotNil(t, readData[0].EndTime)
	assert.WithinDuration(t, end, *readData[0].EndTime, time.Nanosecond)
	require.NotNil(t, readData[0].RunDurationMs)
	assert.Equal(t, duration, *readData[0].RunDurationMs)
	require.NotNil(t, readData[0].ConfigParams)
	assert.Equal(t, params, *readData[0].ConfigParams)

	assert.Nil(t, readData[1].EndTime)
	assert.Nil(t, readData[1].RunDurationMs)
	assert.Nil(t, readData[1].ConfigParams)
}

func TestWriteSegmentCellsParquet_NullableElasticity(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "cells.parquet")
	e := -1.8
	now := time.Now().UTC()
	records := []schema.SegmentCellRecord{
		{RunID: 1, ProductID: "P1", Segment: "Bargain", CompetitorAction: "undercut", AnalysisTime: now, Elasticity: &e, CellRows: 3},
		{RunID: 1, ProductID: "P1", Segment: "Loyal", CompetitorAction: "premium", AnalysisTime: now, CellRows: 0},
	}
	require.NoError(t, WriteSegmentCellsParquet(ConvertSegmentCellRecords(records), outputPath))

	readData, err := readParquet[SegmentCell](outputPath)
	require.NoError(t, err)
	require.Len(t, readData, 2)
	require.NotNil(t, readData[0].Elasticity)
	assert.Equal(t, -1.8, *readData[0].Elasticity)
	assert.Nil(t, readData[1].Elasticity)
	assert.Equal(t, "undercut", readData[0].CompetitorAction)
}

func TestWriteScenarioResultsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "scenarios.parquet")
	records := []schema.ScenarioResultRecord{
		{RunID: 3, ProductID: "P1", Scenario: "Expected", AnalysisTime: time.Now().UTC(), BasePrice: 50, CandidatePrice: 50, Reason: "ok", PredictedDemand: 99, PredictedRevenue: 4950},
	}
	require.NoError(t, WriteScenarioResultsParquet(ConvertScenarioResultRecords(records), outputPath))

	readData, err := readParquet[ScenarioResult](outputPath)
	require.NoError(t, err)
	require.Len(t, readData, 1)
	assert.Equal(t, "Expected", readData[0].Scenario)
	assert.Equal(t, int32(99), readData[0].PredictedDemand)
	assert.Equal(t, 4950.0, readData[0].PredictedRevenue)
}

func TestWriteEnrichedScenariosParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "ranked.parquet")
	results := []schema.EnrichedScenarioResult{
		{ProductID: "P1", Rank: 1, Label: "Accepted", ScenarioResult: schema.ScenarioResult{
			Scenario: schema.FestivalSurgeScenario, CandidatePrice: 50, Reason: schema.ReasonOK, PredictedDemand: 124, PredictedRevenue: 6200,
		}},
	}
	require.NoError(t, WriteEnrichedScenariosParquet(results, map[string]float64{"P1": 50}, outputPath))

	readData, err := readParquet[ScenarioResult](outputPath)
	require.NoError(t, err)
	require.Len(t, readData, 1)
	assert.Equal(t, "Festival_Surge", readData[0].Scenario)
	assert.Equal(t, 50.0, readData[0].BasePrice)
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteRunsParquet(nil, "/nonexistent/directory/runs.parquet")
	assert.Error(t, err)
}

func TestWriteParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteSegmentCellsParquet([]SegmentCell{}, outputPath))

	readData, err := readParquet[SegmentCell](outputPath)
	require.NoError(t, err)
	assert.Empty(t, readData)
}
