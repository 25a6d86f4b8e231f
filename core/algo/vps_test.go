package algo

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/huangsam/fairprice/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeVPS(t *testing.T) {
	weights := schema.DefaultRuleSet().VPS
	tests := []struct {
		name     string
		obs      schema.Observation
		expected float64
	}{
		{
			name:     "weighted sum",
			obs:      schema.Observation{QualityScore: 0.8, InterestScore: 0.6, BrandScore: 0.5, DiscountPref: 0.2},
			expected: 0.595,
		},
		{
			name:     "all positive signals maxed",
			obs:      schema.Observation{QualityScore: 1, InterestScore: 1, BrandScore: 1},
			expected: 0.9,
		},
		{
			name:     "clamped above",
			obs:      schema.Observation{QualityScore: 3, InterestScore: 1, BrandScore: 1},
			expected: 1,
		},
		{
			name:     "clamped below",
			obs:      schema.Observation{DiscountPref: 1},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeVPS(tt.obs, weights)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestComputeVPSRejectsNonFinite(t *testing.T) {
	weights := schema.DefaultRuleSet().VPS
	_, err := ComputeVPS(schema.Observation{QualityScore: math.NaN()}, weights)
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
	_, err = ComputeVPS(schema.Observation{DiscountPref: math.Inf(1)}, weights)
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
}

func TestScoreTableBoundsAndIdempotence(t *testing.T) {
	weights := schema.DefaultRuleSet().VPS
	table := schema.Table{
		behavioralRow(50, 100),
		{ProductID: "P2", QualityScore: 2, InterestScore: 2, BrandScore: 2},
		{ProductID: "P3", DiscountPref: 5},
	}

	once, err := ScoreTable(table, weights)
	require.NoError(t, err)
	for _, o := range once {
		assert.GreaterOrEqual(t, o.VPS, 0.0)
		assert.LessOrEqual(t, o.VPS, 1.0)
	}

	twice, err := ScoreTable(once, weights)
	require.NoError(t, err)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("rescoring changed the table (-once +twice):\n%s", diff)
	}

	// The source table is left alone
	for _, o := range table {
		assert.Zero(t, o.VPS)
	}
}

func TestScoreTableReportsRow(t *testing.T) {
	table := schema.Table{behavioralRow(50, 100), {ProductID: "P2", BrandScore: math.NaN()}}
	_, err := ScoreTable(table, schema.DefaultRuleSet().VPS)
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
	assert.Contains(t, err.Error(), "row 1")
}
