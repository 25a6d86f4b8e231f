package algo

import (
	"fmt"

	"github.com/huangsam/fairprice/schema"
)

// ShockMultiplier returns the demand multiplier of a shock. Unknown shock types are a no-op.
func ShockMultiplier(shock schema.ShockType, intensity float64, rules schema.RuleSet) float64 {
	slope, ok := rules.ShockSlope(shock)
	if !ok {
		return 1.0
	}
	return 1 + slope*intensity
}

// ApplyShock predicts demand under a named shock from the mean historical demand.
func ApplyShock(table schema.Table, shock schema.ShockType, intensity float64, rules schema.RuleSet) (schema.ShockResult, error) {
	if !finite(intensity) {
		return schema.ShockResult{}, fmt.Errorf("%w: intensity is %v", schema.ErrInvalidInput, intensity)
	}
	demand := table.Column(func(o schema.Observation) float64 { return o.Demand })
	if err := requireFinite("demand", demand...); err != nil {
		return schema.ShockResult{}, err
	}
	base, err := Mean(demand)
	if err != nil {
		return schema.ShockResult{}, err
	}
	mul := ShockMultiplier(shock, intensity, rules)
	return schema.ShockResult{
		ShockType:       shock,
		Intensity:       intensity,
		BaseDemand:      base,
		Multiplier:      mul,
		PredictedDemand: RoundInt(base * mul),
	}, nil
}
