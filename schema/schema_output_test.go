package schema_test

import (
	"testing"

	"github.com/huangsam/fairprice/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		reason   schema.GuardrailReason
		expected string
	}{
		{"Accepted", schema.ReasonOK, "Accepted"},
		{"Floor", schema.ReasonBelowFloor, "Clamped"},
		{"Ceiling", schema.ReasonAboveCeiling, "Clamped"},
		{"Margin", schema.ReasonMargin, "Margin"},
		{"Competitor", schema.ReasonCompetitor, "Competitor"},
		{"Unknown", schema.GuardrailReason("nope"), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.GetPlainLabel(tt.reason))
		})
	}
}

func TestEnrichScenarios(t *testing.T) {
	set := schema.ScenarioSet{
		schema.WorstScenario:    {Scenario: schema.WorstScenario, PredictedRevenue: 50, Reason: schema.ReasonOK},
		schema.ExpectedScenario: {Scenario: schema.ExpectedScenario, PredictedRevenue: 100, Reason: schema.ReasonOK},
		schema.BestScenario:     {Scenario: schema.BestScenario, PredictedRevenue: 100, Reason: schema.ReasonMargin},
	}

	enriched := schema.EnrichScenarios("P1", set)

	assert.Len(t, enriched, 3)
	assert.Equal(t, schema.ExpectedScenario, enriched[0].Scenario)
	assert.Equal(t, 1, enriched[0].Rank)
	assert.Equal(t, schema.BestScenario, enriched[1].Scenario)
	assert.Equal(t, 2, enriched[1].Rank)
	assert.Equal(t, "Margin", enriched[1].Label)
	assert.Equal(t, schema.WorstScenario, enriched[2].Scenario)
	assert.Equal(t, 3, enriched[2].Rank)
	assert.Equal(t, "P1", enriched[2].ProductID)
}
