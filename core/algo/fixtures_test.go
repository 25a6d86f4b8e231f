package algo

import "github.com/huangsam/fairprice/schema"

// observation returns a Standard row with neutral behavior signals.
func observation(id string, vps, gap float64) schema.Observation {
	return schema.Observation{
		Date:            "2023-01-31",
		ProductID:       id,
		ProductType:     schema.StandardCategory,
		EffectivePrice:  50,
		CompetitorPrice: 50 + gap,
		HesitationTime:  10,
		Demand:          100,
		VPS:             vps,
	}
}

// behavioralRow returns an unscored Standard row whose vps scores to 0.595.
func behavioralRow(competitor, demand float64) schema.Observation {
	return schema.Observation{
		Date:            "2023-01-31",
		ProductID:       "P1",
		ProductType:     schema.StandardCategory,
		Price:           50,
		EffectivePrice:  50,
		CompetitorPrice: competitor,
		InterestScore:   0.6,
		HesitationTime:  10,
		DiscountPref:    0.2,
		QualityScore:    0.8,
		BrandScore:      0.5,
		Demand:          demand,
	}
}
