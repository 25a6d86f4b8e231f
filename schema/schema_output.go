package schema

// EnrichedScenarioResult adds presentation data to a ScenarioResult.
type EnrichedScenarioResult struct {
	ProductID      string `json:"product_id" yaml:"product_id"`
	Rank           int    `json:"rank" yaml:"rank"`
	Label          string `json:"label" yaml:"label"`
	ScenarioResult `yaml:",inline"`
}

// GetPlainLabel returns a plain text label for a guardrail reason.
func GetPlainLabel(reason GuardrailReason) string {
	switch reason {
	case ReasonOK:
		return "Accepted"
	case ReasonBelowFloor, ReasonAboveCeiling:
		return "Clamped"
	case ReasonMargin:
		return "Margin"
	case ReasonCompetitor:
		return "Competitor"
	default:
		return "Unknown"
	}
}

// EnrichScenarios returns the results of a set in catalog order, ranked by predicted revenue.
// Ties keep catalog order.
func EnrichScenarios(productID string, set ScenarioSet) []EnrichedScenarioResult {
	ordered := set.Ordered()
	output := make([]EnrichedScenarioResult, len(ordered))
	for i, r := range ordered {
		rank := 1
		for j, other := range ordered {
			if other.PredictedRevenue > r.PredictedRevenue || (other.PredictedRevenue == r.PredictedRevenue && j < i) {
				rank++
			}
		}
		output[i] = EnrichedScenarioResult{
			ProductID:      productID,
			Rank:           rank,
			Label:          GetPlainLabel(r.Reason),
			ScenarioResult: r,
		}
	}
	return output
}

// LadderReport is the price ladder derived for one product.
// ProductID is empty when the base price was given directly.
type LadderReport struct {
	ProductID string      `json:"product_id,omitempty" yaml:"product_id,omitempty"`
	BasePrice float64     `json:"base_price" yaml:"base_price"`
	Ladder    PriceLadder `json:"ladder" yaml:"ladder"`
}

// GuardrailReport is a standalone guardrail evaluation with its inputs.
type GuardrailReport struct {
	CandidatePrice float64           `json:"candidate_price" yaml:"candidate_price"`
	Params         GuardrailParams   `json:"params" yaml:"params"`
	Decision       GuardrailDecision `json:"decision" yaml:"decision"`
}

// ShockReport is the shock prediction for one product.
type ShockReport struct {
	ProductID   string `json:"product_id" yaml:"product_id"`
	ShockResult `yaml:",inline"`
}
