package schema

// SegmentCell is one (segment, competitor action) row of the segmentation matrix.
type SegmentCell struct {
	Segment          Segment          `json:"segment" yaml:"segment"`
	CompetitorAction CompetitorAction `json:"competitor_action" yaml:"competitor_action"`
	Elasticity       *float64         `json:"elasticity" yaml:"elasticity"` // nil when the cell has no rows
	Rows             int              `json:"rows" yaml:"rows"`
}

// Defined reports whether the cell carries a computed elasticity.
func (c SegmentCell) Defined() bool {
	return c.Elasticity != nil
}

// SegmentMatrix is the full segmentation matrix in canonical order.
type SegmentMatrix []SegmentCell

// DefinedElasticities returns the elasticity of every defined cell in matrix order.
func (m SegmentMatrix) DefinedElasticities() []float64 {
	var values []float64
	for _, c := range m {
		if c.Elasticity != nil {
			values = append(values, *c.Elasticity)
		}
	}
	return values
}

// PriceLadder holds the three anchor prices derived from one base price.
type PriceLadder struct {
	Entry   float64 `json:"entry" yaml:"entry"`
	Mid     float64 `json:"mid" yaml:"mid"`
	Premium float64 `json:"premium" yaml:"premium"`
}

// GuardrailParams are the constraints a candidate price is checked against.
// Nil pointers mean the rule is not applied.
type GuardrailParams struct {
	Cost             float64  `json:"cost" yaml:"cost"`
	MarginThreshold  float64  `json:"margin_threshold" yaml:"margin_threshold"`
	Floor            *float64 `json:"floor,omitempty" yaml:"floor,omitempty"`
	Ceiling          *float64 `json:"ceiling,omitempty" yaml:"ceiling,omitempty"`
	CompetitorPrice  *float64 `json:"competitor_price,omitempty" yaml:"competitor_price,omitempty"`
	MinCompetitorGap float64  `json:"min_competitor_gap" yaml:"min_competitor_gap"`
}

// GuardrailDecision is the outcome of a guardrail evaluation.
type GuardrailDecision struct {
	Accepted bool            `json:"accepted" yaml:"accepted"`
	Price    float64         `json:"price" yaml:"price"`   // resolved price
	Reason   GuardrailReason `json:"reason" yaml:"reason"` // first violation, or ok
	Passes   int             `json:"passes" yaml:"passes"`
}

// ScenarioResult is the guardrail-adjusted price and predicted outcome of one scenario.
type ScenarioResult struct {
	Scenario         ScenarioName    `json:"scenario" yaml:"scenario"`
	CandidatePrice   float64         `json:"candidate_price" yaml:"candidate_price"`
	Reason           GuardrailReason `json:"reason" yaml:"reason"`
	PredictedDemand  int             `json:"predicted_demand" yaml:"predicted_demand"`
	PredictedRevenue float64         `json:"predicted_revenue" yaml:"predicted_revenue"`
}

// ScenarioSet maps every catalog scenario to its result.
type ScenarioSet map[ScenarioName]ScenarioResult

// Ordered returns the results in catalog order.
func (s ScenarioSet) Ordered() []ScenarioResult {
	out := make([]ScenarioResult, 0, len(s))
	for _, name := range AllScenarios {
		if r, ok := s[name]; ok {
			out = append(out, r)
		}
	}
	return out
}

// ShockResult is the demand prediction under a single named shock.
type ShockResult struct {
	ShockType       ShockType `json:"shock_type" yaml:"shock_type"`
	Intensity       float64   `json:"intensity" yaml:"intensity"`
	BaseDemand      float64   `json:"base_demand" yaml:"base_demand"`
	Multiplier      float64   `json:"multiplier" yaml:"multiplier"`
	PredictedDemand int       `json:"predicted_demand" yaml:"predicted_demand"`
}

// ProductAnalysis is the full pipeline output for one product.
type ProductAnalysis struct {
	ProductID  string        `json:"product_id" yaml:"product_id"`
	Category   Category      `json:"product_type" yaml:"product_type"`
	Rows       int           `json:"rows" yaml:"rows"`
	BasePrice  float64       `json:"base_price" yaml:"base_price"`
	Cost       float64       `json:"cost" yaml:"cost"`
	MedianVPS  float64       `json:"median_vps" yaml:"median_vps"`
	MeanDemand float64       `json:"mean_demand" yaml:"mean_demand"`
	Elasticity float64       `json:"elasticity" yaml:"elasticity"` // exponent applied to the price ratio
	Ladder     PriceLadder   `json:"ladder" yaml:"ladder"`
	Matrix     SegmentMatrix `json:"matrix" yaml:"matrix"`
	Scenarios  ScenarioSet   `json:"scenarios" yaml:"scenarios"`
}
