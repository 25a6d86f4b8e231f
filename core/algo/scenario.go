package algo

import (
	"fmt"
	"math"

	"github.com/huangsam/fairprice/schema"
)

// Settings carries the rule set and the policies the pipeline applies.
type Settings struct {
	Rules           schema.RuleSet
	Baseline        schema.BaselinePolicy
	GuardrailPasses int
}

// DefaultSettings returns the reference rules with single-pass guardrails
// and the majority baseline policy.
func DefaultSettings() Settings {
	return Settings{
		Rules:           schema.DefaultRuleSet(),
		Baseline:        schema.MajorityBaseline,
		GuardrailPasses: 1,
	}
}

// Baseline is the reference point every scenario is simulated against.
type Baseline struct {
	MedianVPS        float64
	MeanDemand       float64
	MedianCompetitor float64
	Elasticity       float64
}

// ScenarioElasticity returns the median of the defined cell elasticities,
// or 1.0 when no cell is defined.
func ScenarioElasticity(matrix schema.SegmentMatrix) float64 {
	e, err := Median(matrix.DefinedElasticities())
	if err != nil {
		return 1.0
	}
	return e
}

// ComputeBaseline derives the simulation baseline from a scored table and its matrix.
func ComputeBaseline(scored schema.Table, matrix schema.SegmentMatrix) (Baseline, error) {
	if len(scored) == 0 {
		return Baseline{}, fmt.Errorf("%w: scenarios need at least one row", schema.ErrUndefinedStatistic)
	}
	demand := scored.Column(func(o schema.Observation) float64 { return o.Demand })
	competitor := scored.Column(func(o schema.Observation) float64 { return o.CompetitorPrice })
	vps := scored.Column(func(o schema.Observation) float64 { return o.VPS })
	if err := requireFinite("demand", demand...); err != nil {
		return Baseline{}, err
	}
	if err := requireFinite("competitor_price", competitor...); err != nil {
		return Baseline{}, err
	}

	var b Baseline
	var err error
	if b.MedianVPS, err = Median(vps); err != nil {
		return Baseline{}, err
	}
	if b.MeanDemand, err = Mean(demand); err != nil {
		return Baseline{}, err
	}
	if b.MedianCompetitor, err = Median(competitor); err != nil {
		return Baseline{}, err
	}
	b.Elasticity = ScenarioElasticity(matrix)
	return b, nil
}

// SimulateScenarios runs every catalog scenario against the mid ladder price.
// Each scenario is independent: it scales the median competitor price, runs
// the guardrails and predicts demand from the guardrail-resolved price.
func SimulateScenarios(b Baseline, ladder schema.PriceLadder, basePrice, cost float64, s Settings) (schema.ScenarioSet, error) {
	if !finite(basePrice) || basePrice <= 0 {
		return nil, fmt.Errorf("%w: base price must be positive, got %v", schema.ErrInvalidInput, basePrice)
	}
	if !finite(cost) {
		return nil, fmt.Errorf("%w: cost is %v", schema.ErrInvalidInput, cost)
	}

	sr := s.Rules.Scenario
	floor := sr.FloorRatio * basePrice
	ceiling := sr.CeilingRatio * basePrice

	set := make(schema.ScenarioSet, len(sr.Catalog))
	for _, sc := range sr.Catalog {
		competitor := b.MedianCompetitor * sc.CompetitorMul
		decision, err := EnforceGuardrails(ladder.Mid, schema.GuardrailParams{
			Cost:             cost,
			MarginThreshold:  sr.MarginThreshold,
			Floor:            &floor,
			Ceiling:          &ceiling,
			CompetitorPrice:  &competitor,
			MinCompetitorGap: sr.MinCompetitorGap,
		}, s.GuardrailPasses)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}

		priceFactor := math.Pow(decision.Price/basePrice, b.Elasticity)
		demand := max(0, b.MeanDemand*priceFactor*sc.DemandMul*(b.MedianVPS/sr.VPSReference))
		units := max(0, RoundInt(demand))

		set[sc.Name] = schema.ScenarioResult{
			Scenario:         sc.Name,
			CandidatePrice:   Round(decision.Price, s.Rules.CurrencyDecimals),
			Reason:           decision.Reason,
			PredictedDemand:  units,
			PredictedRevenue: Round(decision.Price*float64(units), s.Rules.CurrencyDecimals),
		}
	}
	return set, nil
}

// RunScenarios scores the table, builds its matrix and ladder and runs the
// full scenario catalog for one base price and cost.
func RunScenarios(table schema.Table, basePrice, cost float64, s Settings) (schema.ScenarioSet, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: scenarios need at least one row", schema.ErrUndefinedStatistic)
	}
	scored, err := ScoreTable(table, s.Rules.VPS)
	if err != nil {
		return nil, err
	}
	matrix, err := BuildSegmentationMatrix(scored, s.Rules, s.Baseline)
	if err != nil {
		return nil, err
	}
	ladder, err := BuildPriceLadder(basePrice, s.Rules.Ladder)
	if err != nil {
		return nil, err
	}
	b, err := ComputeBaseline(scored, matrix)
	if err != nil {
		return nil, err
	}
	return SimulateScenarios(b, ladder, basePrice, cost, s)
}
