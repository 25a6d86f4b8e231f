package algo

import (
	"math"
	"testing"

	"github.com/huangsam/fairprice/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyShock(t *testing.T) {
	table := schema.Table{behavioralRow(50, 100), behavioralRow(50, 200)}
	rules := schema.DefaultRuleSet()

	tests := []struct {
		shock      schema.ShockType
		intensity  float64
		multiplier float64
		expected   int
	}{
		{schema.FestivalShock, 0.25, 1.25, 188},
		{schema.CompetitorFlashShock, 0.25, 0.75, 112},
		{schema.SupplyShortageShock, 0.1, 0.9, 135},
		{schema.ViralShock, 0.25, 1.275, 191},
		{"unknown_type", 0.25, 1.0, 150},
	}

	for _, tt := range tests {
		t.Run(string(tt.shock), func(t *testing.T) {
			got, err := ApplyShock(table, tt.shock, tt.intensity, rules)
			require.NoError(t, err)
			assert.Equal(t, tt.shock, got.ShockType)
			assert.InDelta(t, 150, got.BaseDemand, 1e-9)
			assert.InDelta(t, tt.multiplier, got.Multiplier, 1e-9)
			assert.Equal(t, tt.expected, got.PredictedDemand)
		})
	}
}

func TestApplyShockErrors(t *testing.T) {
	rules := schema.DefaultRuleSet()

	_, err := ApplyShock(nil, schema.FestivalShock, 0.25, rules)
	assert.ErrorIs(t, err, schema.ErrUndefinedStatistic)

	_, err = ApplyShock(schema.Table{behavioralRow(50, 100)}, schema.FestivalShock, math.NaN(), rules)
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
}
