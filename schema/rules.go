package schema

// VPSWeights are the linear weights of the value perception score.
type VPSWeights struct {
	Quality  float64 `json:"quality" yaml:"quality"`
	Interest float64 `json:"interest" yaml:"interest"`
	Brand    float64 `json:"brand" yaml:"brand"`
	Discount float64 `json:"discount" yaml:"discount"` // subtracted
}

// ElasticityRules hold the baselines and additive modifiers of a cell elasticity.
type ElasticityRules struct {
	StandardBase        float64 `json:"standard_base" yaml:"standard_base"`
	PremiumBase         float64 `json:"premium_base" yaml:"premium_base"`
	LowVPSThreshold     float64 `json:"low_vps_threshold" yaml:"low_vps_threshold"`
	LowVPSModifier      float64 `json:"low_vps_modifier" yaml:"low_vps_modifier"`
	HesitationThreshold float64 `json:"hesitation_threshold" yaml:"hesitation_threshold"`
	HesitationModifier  float64 `json:"hesitation_modifier" yaml:"hesitation_modifier"`
	UndercutGap         float64 `json:"undercut_gap" yaml:"undercut_gap"`
	UndercutModifier    float64 `json:"undercut_modifier" yaml:"undercut_modifier"`
	PremiumGap          float64 `json:"premium_gap" yaml:"premium_gap"`
	PremiumModifier     float64 `json:"premium_modifier" yaml:"premium_modifier"`
	Decimals            int32   `json:"decimals" yaml:"decimals"`
}

// LadderRules hold the price ladder multipliers.
type LadderRules struct {
	Entry    float64 `json:"entry" yaml:"entry"`
	Mid      float64 `json:"mid" yaml:"mid"`
	Premium  float64 `json:"premium" yaml:"premium"`
	Decimals int32   `json:"decimals" yaml:"decimals"`
}

// ScenarioMultipliers scale demand and the competitor price for one catalog scenario.
type ScenarioMultipliers struct {
	Name          ScenarioName `json:"name" yaml:"name"`
	DemandMul     float64      `json:"demand_mul" yaml:"demand_mul"`
	CompetitorMul float64      `json:"competitor_mul" yaml:"competitor_mul"`
}

// ScenarioRules hold the guardrail settings and catalog used by the scenario engine.
type ScenarioRules struct {
	MarginThreshold  float64               `json:"margin_threshold" yaml:"margin_threshold"`
	FloorRatio       float64               `json:"floor_ratio" yaml:"floor_ratio"`
	CeilingRatio     float64               `json:"ceiling_ratio" yaml:"ceiling_ratio"`
	MinCompetitorGap float64               `json:"min_competitor_gap" yaml:"min_competitor_gap"`
	VPSReference     float64               `json:"vps_reference" yaml:"vps_reference"`
	CostRatio        float64               `json:"cost_ratio" yaml:"cost_ratio"`
	Catalog          []ScenarioMultipliers `json:"catalog" yaml:"catalog"`
}

// ShockRules hold the per-intensity slope of each known shock.
type ShockRules struct {
	Festival        float64 `json:"festival" yaml:"festival"`
	CompetitorFlash float64 `json:"competitor_flash" yaml:"competitor_flash"`
	SupplyShortage  float64 `json:"supply_shortage" yaml:"supply_shortage"`
	Viral           float64 `json:"viral" yaml:"viral"`
}

// RuleSet is every fixed constant of the pricing pipeline.
type RuleSet struct {
	VPS              VPSWeights      `json:"vps" yaml:"vps"`
	LowQuantile      float64         `json:"low_quantile" yaml:"low_quantile"`
	HighQuantile     float64         `json:"high_quantile" yaml:"high_quantile"`
	CompetitorBand   float64         `json:"competitor_band" yaml:"competitor_band"`
	Elasticity       ElasticityRules `json:"elasticity" yaml:"elasticity"`
	Ladder           LadderRules     `json:"ladder" yaml:"ladder"`
	Scenario         ScenarioRules   `json:"scenario" yaml:"scenario"`
	Shock            ShockRules      `json:"shock" yaml:"shock"`
	CurrencyDecimals int32           `json:"currency_decimals" yaml:"currency_decimals"`
}

// DefaultRuleSet returns the reference rule set.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		VPS: VPSWeights{
			Quality:  0.45,
			Interest: 0.30,
			Brand:    0.15,
			Discount: 0.10,
		},
		LowQuantile:    0.33,
		HighQuantile:   0.66,
		CompetitorBand: 3,
		Elasticity: ElasticityRules{
			StandardBase:        -1.2,
			PremiumBase:         -1.0,
			LowVPSThreshold:     0.5,
			LowVPSModifier:      -0.4,
			HesitationThreshold: 15,
			HesitationModifier:  -0.3,
			UndercutGap:         -3,
			UndercutModifier:    -0.6,
			PremiumGap:          5,
			PremiumModifier:     0.2,
			Decimals:            3,
		},
		Ladder: LadderRules{
			Entry:    0.9,
			Mid:      1.0,
			Premium:  1.15,
			Decimals: 2,
		},
		Scenario: ScenarioRules{
			MarginThreshold:  0.20,
			FloorRatio:       0.6,
			CeilingRatio:     1.5,
			MinCompetitorGap: -10,
			VPSReference:     0.6,
			CostRatio:        0.6,
			Catalog: []ScenarioMultipliers{
				{Name: ExpectedScenario, DemandMul: 1.0, CompetitorMul: 1.0},
				{Name: BestScenario, DemandMul: 1.15, CompetitorMul: 1.0},
				{Name: WorstScenario, DemandMul: 0.85, CompetitorMul: 0.95},
				{Name: CompetitorUndercutScenario, DemandMul: 0.9, CompetitorMul: 0.85},
				{Name: FestivalSurgeScenario, DemandMul: 1.25, CompetitorMul: 1.05},
			},
		},
		Shock: ShockRules{
			Festival:        1.0,
			CompetitorFlash: -1.0,
			SupplyShortage:  -1.0,
			Viral:           1.1,
		},
		CurrencyDecimals: 2,
	}
}

// ShockSlope returns the per-intensity slope for a shock type and whether it is known.
func (r RuleSet) ShockSlope(t ShockType) (float64, bool) {
	switch t {
	case FestivalShock:
		return r.Shock.Festival, true
	case CompetitorFlashShock:
		return r.Shock.CompetitorFlash, true
	case SupplyShortageShock:
		return r.Shock.SupplyShortage, true
	case ViralShock:
		return r.Shock.Viral, true
	default:
		return 0, false
	}
}
