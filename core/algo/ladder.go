package algo

import (
	"fmt"

	"github.com/huangsam/fairprice/schema"
)

// BuildPriceLadder derives the entry, mid and premium anchors from a base price.
func BuildPriceLadder(basePrice float64, rules schema.LadderRules) (schema.PriceLadder, error) {
	if !finite(basePrice) {
		return schema.PriceLadder{}, fmt.Errorf("%w: base price is %v", schema.ErrInvalidInput, basePrice)
	}
	return schema.PriceLadder{
		Entry:   Round(rules.Entry*basePrice, rules.Decimals),
		Mid:     Round(rules.Mid*basePrice, rules.Decimals),
		Premium: Round(rules.Premium*basePrice, rules.Decimals),
	}, nil
}
