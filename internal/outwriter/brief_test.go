package outwriter

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/fairprice/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var briefDate = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func TestRenderBrief_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderBrief(&buf, Brief{Date: "2024-03-15"}))

	expected := "# fairprice Leadership Brief — 2024-03-15\n\n" +
		"## Key Insights\n\n" +
		PendingInsights + "\n" +
		"\n## Recommendations\n\n" +
		PendingRecommendations + "\n"
	assert.Equal(t, expected, buf.String())
}

func TestRenderBrief_Numbered(t *testing.T) {
	var buf bytes.Buffer
	brief := Brief{
		Date:            "2024-03-15",
		Insights:        []string{"first", "second"},
		Recommendations: []string{"only"},
	}
	require.NoError(t, RenderBrief(&buf, brief))

	out := buf.String()
	assert.Contains(t, out, "## Key Insights\n\n1. first\n2. second\n")
	assert.Contains(t, out, "## Recommendations\n\n1. only\n")
	assert.NotContains(t, out, "pending")
}

func TestBuildBrief(t *testing.T) {
	brief := BuildBrief([]schema.ProductAnalysis{sampleAnalysis()}, briefDate, 2)

	assert.Equal(t, "2024-03-15", brief.Date)
	require.Len(t, brief.Insights, 4)
	assert.Equal(t, "P001 (Standard): median VPS 0.55 over 24 months; price elasticity -1.4.", brief.Insights[0])
	assert.Equal(t, "P001: revenue ranges from 5177.50 (Worst) to 7455.00 (Festival_Surge), a spread of 2277.50.", brief.Insights[1])
	assert.Equal(t, "P001: the most price-sensitive cell is Bargain / undercut (elasticity -2.5, 3 rows).", brief.Insights[2])
	assert.Equal(t, "P001: 1 of 3 segmentation cells have no observations.", brief.Insights[3])

	require.Len(t, brief.Recommendations, 3)
	assert.Equal(t, "P001: list at 50.00, which passes every guardrail in the Expected scenario.", brief.Recommendations[0])
	assert.Equal(t, "P001: review pricing constraints, 1 of 5 scenarios needed guardrail corrections (Competitor_Undercut: margin below threshold).", brief.Recommendations[1])
	assert.Equal(t, "P001: anchor the range at 45.00 entry, 50.00 mid and 57.50 premium.", brief.Recommendations[2])
}

func TestBuildBrief_CorrectedExpected(t *testing.T) {
	analysis := sampleAnalysis()
	expected := analysis.Scenarios[schema.ExpectedScenario]
	expected.Reason = schema.ReasonCompetitor
	analysis.Scenarios[schema.ExpectedScenario] = expected
	analysis.Matrix = nil

	brief := BuildBrief([]schema.ProductAnalysis{analysis}, briefDate, 2)

	assert.Len(t, brief.Insights, 2)
	assert.Equal(t, "P001: list at 50.00; the Expected candidate was corrected for competitor gap.", brief.Recommendations[0])
}

func TestBuildBrief_NoAnalyses(t *testing.T) {
	brief := BuildBrief(nil, briefDate, 2)
	assert.Empty(t, brief.Insights)
	assert.Empty(t, brief.Recommendations)
}

func TestWriteBrief(t *testing.T) {
	cfg := testConfig(t, schema.MarkdownOut, "brief.md")
	require.NoError(t, NewOutWriter().WriteBrief([]schema.ProductAnalysis{sampleAnalysis()}, cfg, briefDate))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "# fairprice Leadership Brief — 2024-03-15")
	assert.Contains(t, out, "1. P001 (Standard)")

	cfg = testConfig(t, schema.CSVOut, "brief.csv")
	assert.ErrorIs(t, WriteBrief(nil, cfg, briefDate), schema.ErrConfiguration)
}

func TestWriteBrief_Structured(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut, "brief.json")
	require.NoError(t, WriteBrief([]schema.ProductAnalysis{sampleAnalysis()}, cfg, briefDate))

	var brief Brief
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &brief))
	assert.Equal(t, "2024-03-15", brief.Date)
	assert.NotEmpty(t, brief.Recommendations)

	cfg = testConfig(t, schema.YAMLOut, "brief.yaml")
	require.NoError(t, WriteBrief([]schema.ProductAnalysis{sampleAnalysis()}, cfg, briefDate))
	var decoded Brief
	require.NoError(t, yaml.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
	assert.Equal(t, brief, decoded)

	cfg = testConfig(t, schema.ParquetOut, "brief.parquet")
	assert.ErrorIs(t, WriteBrief(nil, cfg, briefDate), schema.ErrConfiguration)
}

func TestMostElasticCell(t *testing.T) {
	_, ok := mostElasticCell(schema.SegmentMatrix{{Segment: schema.LoyalSegment}})
	assert.False(t, ok)

	matrix := schema.SegmentMatrix{
		{Segment: schema.BargainSegment, CompetitorAction: schema.NeutralAction, Elasticity: ptr(-1.6)},
		{Segment: schema.LoyalSegment, CompetitorAction: schema.NeutralAction, Elasticity: ptr(-1.6)},
		{Segment: schema.PremiumSegment, CompetitorAction: schema.PremiumAction, Elasticity: ptr(-0.8)},
	}
	cell, ok := mostElasticCell(matrix)
	require.True(t, ok)
	assert.Equal(t, schema.BargainSegment, cell.Segment)
}
