package algo

import (
	"fmt"

	"github.com/huangsam/fairprice/schema"
)

// ComputeVPS returns the value perception score of one observation:
// a weighted sum of quality, interest and brand minus a discount-seeking
// penalty, clamped to [0,1]. Out-of-range inputs are clamped by the same
// formula; only non-finite inputs are rejected.
func ComputeVPS(o schema.Observation, w schema.VPSWeights) (float64, error) {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"quality_score", o.QualityScore},
		{"interest_score", o.InterestScore},
		{"brand_score", o.BrandScore},
		{"discount_pref", o.DiscountPref},
	} {
		if !finite(f.value) {
			return 0, fmt.Errorf("%w: %s is %v for product %q", schema.ErrInvalidInput, f.name, f.value, o.ProductID)
		}
	}
	raw := w.Quality*o.QualityScore +
		w.Interest*o.InterestScore +
		w.Brand*o.BrandScore -
		w.Discount*o.DiscountPref
	return clamp01(raw), nil
}

// ScoreTable returns a copy of table with the vps column set on every row.
// Source fields are never modified, so reapplying it is idempotent.
func ScoreTable(table schema.Table, w schema.VPSWeights) (schema.Table, error) {
	scored := table.Clone()
	for i := range scored {
		vps, err := ComputeVPS(scored[i], w)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		scored[i].VPS = vps
	}
	return scored, nil
}
