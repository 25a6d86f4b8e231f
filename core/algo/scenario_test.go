package algo

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/huangsam/fairprice/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformTable(competitor float64) schema.Table {
	return schema.Table{
		behavioralRow(competitor, 100),
		behavioralRow(competitor, 100),
		behavioralRow(competitor, 100),
	}
}

func TestRunScenariosAllAccepted(t *testing.T) {
	set, err := RunScenarios(uniformTable(50), 50, 30, DefaultSettings())
	require.NoError(t, err)
	require.Len(t, set, len(schema.AllScenarios))

	expected := map[schema.ScenarioName]struct {
		demand  int
		revenue float64
	}{
		schema.ExpectedScenario:           {99, 4950},
		schema.BestScenario:               {114, 5700},
		schema.WorstScenario:              {84, 4200},
		schema.CompetitorUndercutScenario: {89, 4450},
		schema.FestivalSurgeScenario:      {124, 6200},
	}
	for name, want := range expected {
		got, ok := set[name]
		require.True(t, ok, name)
		assert.Equal(t, name, got.Scenario)
		assert.InDelta(t, 50, got.CandidatePrice, 1e-9, name)
		assert.Equal(t, schema.ReasonOK, got.Reason, name)
		assert.Equal(t, want.demand, got.PredictedDemand, name)
		assert.InDelta(t, want.revenue, got.PredictedRevenue, 1e-9, name)
	}
}

func TestRunScenariosMarginCorrection(t *testing.T) {
	set, err := RunScenarios(uniformTable(50), 50, 45, DefaultSettings())
	require.NoError(t, err)

	got := set[schema.ExpectedScenario]
	assert.Equal(t, schema.ReasonMargin, got.Reason)
	assert.InDelta(t, 56.25, got.CandidatePrice, 1e-9)
	assert.Equal(t, 86, got.PredictedDemand)
	assert.InDelta(t, 4837.5, got.PredictedRevenue, 1e-9)
}

func TestRunScenariosCompetitorGap(t *testing.T) {
	set, err := RunScenarios(uniformTable(70), 50, 10, DefaultSettings())
	require.NoError(t, err)

	expected := set[schema.ExpectedScenario]
	assert.Equal(t, schema.ReasonCompetitor, expected.Reason)
	assert.InDelta(t, 60, expected.CandidatePrice, 1e-9)
	assert.Equal(t, 83, expected.PredictedDemand)
	assert.InDelta(t, 4980, expected.PredictedRevenue, 1e-9)

	undercut := set[schema.CompetitorUndercutScenario]
	assert.Equal(t, schema.ReasonOK, undercut.Reason)
	assert.InDelta(t, 50, undercut.CandidatePrice, 1e-9)
	assert.Equal(t, 89, undercut.PredictedDemand)
}

func TestRunScenariosDeterministic(t *testing.T) {
	table := uniformTable(50)
	table[1].Demand = 140
	table[2].CompetitorPrice = 44

	first, err := RunScenarios(table, 50, 30, DefaultSettings())
	require.NoError(t, err)
	second, err := RunScenarios(table, 50, 30, DefaultSettings())
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("scenario results differ (-first +second):\n%s", diff)
	}

	for _, o := range table {
		assert.Zero(t, o.VPS, "input table must not be scored in place")
	}
}

func TestRunScenariosNonNegativeDemand(t *testing.T) {
	table := uniformTable(50)
	for i := range table {
		table[i].Demand = -100
	}
	set, err := RunScenarios(table, 50, 30, DefaultSettings())
	require.NoError(t, err)
	for _, r := range set {
		assert.GreaterOrEqual(t, r.PredictedDemand, 0)
	}
}

func TestRunScenariosErrors(t *testing.T) {
	settings := DefaultSettings()

	_, err := RunScenarios(nil, 50, 30, settings)
	assert.ErrorIs(t, err, schema.ErrUndefinedStatistic)

	_, err = RunScenarios(uniformTable(50), 0, 30, settings)
	assert.ErrorIs(t, err, schema.ErrInvalidInput)

	_, err = RunScenarios(uniformTable(50), 50, math.NaN(), settings)
	assert.ErrorIs(t, err, schema.ErrInvalidInput)

	settings.Rules.Scenario.MarginThreshold = 1
	_, err = RunScenarios(uniformTable(50), 50, 30, settings)
	assert.ErrorIs(t, err, schema.ErrConfiguration)
}

func TestScenarioElasticity(t *testing.T) {
	a, b, c := -1.2, -2.0, -0.8
	matrix := schema.SegmentMatrix{
		{Elasticity: &a},
		{},
		{Elasticity: &b},
		{Elasticity: &c},
	}
	assert.InDelta(t, -1.2, ScenarioElasticity(matrix), 1e-9)

	// No defined cell means no price adjustment
	assert.InDelta(t, 1.0, ScenarioElasticity(schema.SegmentMatrix{{}, {}}), 1e-9)
	assert.InDelta(t, 1.0, ScenarioElasticity(nil), 1e-9)
}

func TestSimulateScenariosMultiPass(t *testing.T) {
	settings := DefaultSettings()
	settings.GuardrailPasses = 4

	b := Baseline{MedianVPS: 0.6, MeanDemand: 100, MedianCompetitor: 80, Elasticity: -1}
	ladder := schema.PriceLadder{Entry: 45, Mid: 50, Premium: 57.5}

	// Margin pushes 50 to 56.25, then the competitor gap pushes it to 70
	set, err := SimulateScenarios(b, ladder, 50, 45, settings)
	require.NoError(t, err)

	got := set[schema.ExpectedScenario]
	assert.Equal(t, schema.ReasonMargin, got.Reason)
	assert.InDelta(t, 70, got.CandidatePrice, 1e-9)
}
