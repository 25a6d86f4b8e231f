// Package schema has models, labels and the pricing rule set for all parts of fairprice.
package schema

// Observation is one row of the behavioral dataset: a single product in a single month.
type Observation struct {
	Date            string   `json:"date" validate:"required,datetime=2006-01-02"`   // Month-end date (YYYY-MM-DD)
	ProductID       string   `json:"product_id" validate:"required"`                 // Product identifier
	ProductType     Category `json:"product_type" validate:"oneof=Standard Premium"` // Product category
	Price           float64  `json:"price"`                                          // List price
	DiscountPct     float64  `json:"discount_pct"`                                   // Discount in percent of list price
	EffectivePrice  float64  `json:"effective_price"`                                // List price net of discount
	CompetitorPrice float64  `json:"competitor_price"`                               // Observed competitor price
	InterestScore   float64  `json:"interest_score"`                                 // 0-1
	HesitationTime  float64  `json:"hesitation_time"`                                // Seconds, 1-60
	ScrollDepth     float64  `json:"scroll_depth"`                                   // 0-1
	RevisitScore    float64  `json:"revisit_score"`                                  // 0-1
	AddToCartRate   float64  `json:"add_to_cart_rate"`                               // 0-1
	DiscountPref    float64  `json:"discount_pref"`                                  // 0-1, discount seeking
	QualityScore    float64  `json:"quality_score"`                                  // 0-1
	BrandScore      float64  `json:"brand_score"`                                    // 0-1
	PerceivedValue  float64  `json:"perceived_value"`                                // Raw perceived value before VPS
	SeasonFactor    float64  `json:"season_factor"`                                  // Seasonal demand multiplier
	Demand          float64  `json:"demand"`                                         // Units sold
	Revenue         float64  `json:"revenue"`                                        // Effective price times demand
	VPS             float64  `json:"vps"`                                            // Derived value perception score, 0-1
}

// CompetitorGap returns competitor price minus effective price.
func (o Observation) CompetitorGap() float64 {
	return o.CompetitorPrice - o.EffectivePrice
}

// Table is an ordered sequence of observations, grouped logically by product.
type Table []Observation

// Clone returns a copy of the table that shares no storage with the receiver.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Products returns the distinct product identifiers in first-seen order.
func (t Table) Products() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, o := range t {
		if _, ok := seen[o.ProductID]; ok {
			continue
		}
		seen[o.ProductID] = struct{}{}
		ids = append(ids, o.ProductID)
	}
	return ids
}

// ForProduct returns a new table holding only the rows of the given product.
func (t Table) ForProduct(productID string) Table {
	var out Table
	for _, o := range t {
		if o.ProductID == productID {
			out = append(out, o)
		}
	}
	return out
}

// Column extracts one numeric column from every row.
func (t Table) Column(get func(Observation) float64) []float64 {
	values := make([]float64, len(t))
	for i, o := range t {
		values[i] = get(o)
	}
	return values
}
