package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/internal/dataset"
	"github.com/huangsam/fairprice/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// baseConfig mirrors the defaults the CLI resolves before running a command.
func baseConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		DataPath:        filepath.Join(t.TempDir(), "behavioral_data.csv"),
		CostRatio:       contract.DefaultCostRatio,
		GuardrailPasses: contract.DefaultGuardrailPasses,
		Baseline:        schema.MajorityBaseline,
		Rules:           schema.DefaultRuleSet(),
		Products:        2,
		Months:          24,
		Seed:            contract.DefaultSeed,
		GenerateStart:   contract.DefaultGenerateStart,
		Precision:       contract.DefaultPrecision,
		Output:          schema.TextOut,
		Width:           120,
		HistoryBackend:  schema.NoneBackend,
	}
}

// generateData writes the synthetic dataset to cfg.DataPath.
func generateData(t *testing.T, cfg *contract.Config) {
	t.Helper()
	require.NoError(t, ExecuteGenerate(context.Background(), cfg, nil))
}

func TestExecuteGenerate(t *testing.T) {
	cfg := baseConfig(t)
	generateData(t, cfg)

	table, err := dataset.Load(cfg.DataPath)
	require.NoError(t, err)
	assert.Len(t, table, 48)
	assert.Equal(t, []string{"P1", "P2"}, table.Products())

	cfg.Products = 0
	assert.ErrorIs(t, ExecuteGenerate(context.Background(), cfg, nil), schema.ErrConfiguration)
}

func TestExecuteGenerate_ParquetOutputFile(t *testing.T) {
	cfg := baseConfig(t)
	cfg.OutputFile = filepath.Join(t.TempDir(), "generated.parquet")
	require.NoError(t, ExecuteGenerate(context.Background(), cfg, nil))

	table, err := dataset.Load(cfg.OutputFile)
	require.NoError(t, err)
	assert.Len(t, table, 48)
}

func TestExecuteScenarios_JSON(t *testing.T) {
	cfg := baseConfig(t)
	generateData(t, cfg)
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "scenarios.json")

	ctx := withSuppressHeader(context.Background())
	require.NoError(t, ExecuteScenarios(ctx, cfg, nil))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var reports []map[string]any
	require.NoError(t, json.Unmarshal(data, &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "P1", reports[0]["product_id"])
	assert.Len(t, reports[0]["scenarios"], len(schema.AllScenarios))
}

func TestExecuteMatrix_CSV(t *testing.T) {
	cfg := baseConfig(t)
	generateData(t, cfg)
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "matrix.csv")
	cfg.ProductFilter = "P2"

	require.NoError(t, ExecuteMatrix(withSuppressHeader(context.Background()), cfg, nil))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "product_id,segment,competitor_action,elasticity,rows", lines[0])
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "P2,"), line)
	}
}

func TestExecuteLadder_BasePriceOnly(t *testing.T) {
	cfg := baseConfig(t)
	base := 100.0
	cfg.BasePrice = &base
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "ladder.csv")

	// No dataset exists at cfg.DataPath.
	require.NoError(t, ExecuteLadder(context.Background(), cfg, nil))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, "product_id,base_price,entry,mid,premium\n,100.00,90.00,100.00,115.00\n", string(data))
}

func TestGetLadderReports_FromData(t *testing.T) {
	cfg := baseConfig(t)
	generateData(t, cfg)

	reports, err := GetLadderReports(context.Background(), cfg, dataset.NewFileLoader())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.Positive(t, r.BasePrice)
		assert.LessOrEqual(t, r.Ladder.Entry, r.Ladder.Mid)
		assert.LessOrEqual(t, r.Ladder.Mid, r.Ladder.Premium)
	}
}

func TestExecuteGuardrails(t *testing.T) {
	cfg := baseConfig(t)
	cfg.CandidatePrice = 90
	cfg.Guardrail = schema.GuardrailParams{Cost: 80, MarginThreshold: 0.2}
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "guardrail.json")

	require.NoError(t, ExecuteGuardrails(context.Background(), cfg, nil))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var report schema.GuardrailReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.False(t, report.Decision.Accepted)
	assert.Equal(t, schema.ReasonMargin, report.Decision.Reason)
	assert.InDelta(t, 100.0, report.Decision.Price, 1e-9)
}

func TestGetGuardrailReport_InvalidPasses(t *testing.T) {
	cfg := baseConfig(t)
	cfg.CandidatePrice = 10
	cfg.GuardrailPasses = 0
	_, err := GetGuardrailReport(cfg)
	assert.ErrorIs(t, err, schema.ErrConfiguration)
}

func TestGetShockReports(t *testing.T) {
	cfg := baseConfig(t)
	generateData(t, cfg)
	cfg.ShockType = schema.FestivalShock
	cfg.Intensity = 0.2

	reports, err := GetShockReports(context.Background(), cfg, dataset.NewFileLoader())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.InDelta(t, 1.2, r.Multiplier, 1e-12)
		assert.Greater(t, float64(r.PredictedDemand), r.BaseDemand-1)
	}

	cfg.ShockType = "meteor"
	reports, err = GetShockReports(context.Background(), cfg, dataset.NewFileLoader())
	require.NoError(t, err)
	assert.Equal(t, 1.0, reports[0].Multiplier)
}

func TestExecuteBrief(t *testing.T) {
	cfg := baseConfig(t)
	generateData(t, cfg)
	cfg.Output = schema.MarkdownOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "brief.md")

	require.NoError(t, ExecuteBrief(withSuppressHeader(context.Background()), cfg, nil))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "# fairprice Leadership Brief — "))
	assert.Contains(t, out, "1. P1 (Standard)")
	assert.NotContains(t, out, "pending")
}

func TestExecuteRules(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "rules.csv")

	require.NoError(t, ExecuteRules(context.Background(), cfg, nil))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "rule,value\nvps.quality,0.45\n"))
}

func TestExecuteScenarios_MissingDataset(t *testing.T) {
	cfg := baseConfig(t)
	err := ExecuteScenarios(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load dataset")
}
