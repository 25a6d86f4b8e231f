// Package generator produces reproducible synthetic behavioral datasets.
package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/huangsam/fairprice/core/algo"
	"github.com/huangsam/fairprice/schema"
)

// Options controls the size and randomness of a generated dataset.
type Options struct {
	Products int
	Months   int
	Seed     int64
	Start    time.Time // first month; rows are dated at month end
}

// profile holds the per-category parameters of the generator.
type profile struct {
	category   schema.Category
	basePrice  float64
	quality    float64
	demandBase float64
	hesitation float64
	scroll     float64
	revisit    float64
	addToCart  float64
	discount   float64
	brand      float64
}

var (
	standardProfile = profile{
		category: schema.StandardCategory, basePrice: 50, quality: 0.6, demandBase: 2000,
		hesitation: 12, scroll: 0.45, revisit: 0.12, addToCart: 0.08, discount: 0.18, brand: 0.5,
	}
	premiumProfile = profile{
		category: schema.PremiumCategory, basePrice: 90, quality: 0.85, demandBase: 1200,
		hesitation: 8, scroll: 0.6, revisit: 0.08, addToCart: 0.04, discount: 0.10, brand: 0.7,
	}
)

const (
	promoProbability = 0.35
	priceSpread      = 0.12
	valueReference   = 0.6
	priceExponent    = 1.4
)

// Generate builds a table with Months rows for each of Products products.
// Product P1 is Standard and all others are Premium. The same options always
// produce the same table.
func Generate(opts Options) (schema.Table, error) {
	if opts.Products <= 0 {
		return nil, fmt.Errorf("%w: products must be positive (received %d)", schema.ErrConfiguration, opts.Products)
	}
	if opts.Months <= 0 {
		return nil, fmt.Errorf("%w: months must be positive (received %d)", schema.ErrConfiguration, opts.Months)
	}
	start := opts.Start
	if start.IsZero() {
		start = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	seed := uint64(opts.Seed)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	table := make(schema.Table, 0, opts.Products*opts.Months)
	for pid := range opts.Products {
		p := premiumProfile
		if pid == 0 {
			p = standardProfile
		}
		for m := range opts.Months {
			date := monthEnd(start, m)
			table = append(table, p.observation(rng, fmt.Sprintf("P%d", pid+1), date))
		}
	}
	return table, nil
}

// monthEnd returns the last day of the month offset months after start.
func monthEnd(start time.Time, offset int) time.Time {
	return time.Date(start.Year(), start.Month()+time.Month(offset)+1, 0, 0, 0, 0, 0, time.UTC)
}

func (p profile) observation(rng *rand.Rand, productID string, date time.Time) schema.Observation {
	normal := func(mean, std float64) float64 { return mean + std*rng.NormFloat64() }
	clip := func(v, lo, hi float64) float64 { return math.Min(math.Max(v, lo), hi) }

	competitor := p.basePrice + normal(0, 8)

	interest := clip(normal(0.6, 0.18), 0.05, 1)
	hesitation := clip(normal(p.hesitation, 6), 1, 60)
	scroll := clip(normal(p.scroll, 0.2), 0, 1)
	revisit := clip(normal(p.revisit, 0.07), 0, 1)
	addToCart := clip(normal(p.addToCart, 0.04), 0.001, 1)
	discountPref := clip(normal(p.discount, 0.1), 0, 1)

	price := algo.Round(p.basePrice+normal(0, p.basePrice*priceSpread), 2)
	var discountPct float64
	if rng.Float64() < promoProbability {
		discountPct = algo.Round(normal(5, 3), 2)
	}
	effective := algo.Round(price*(1-discountPct/100), 2)

	quality := clip(p.quality+normal(0, 0.08), 0, 1)
	brand := clip(normal(p.brand, 0.12), 0, 1)
	perceived := quality*0.5 + interest*0.3 + brand*0.2

	priceFactor := effective / p.basePrice
	demand := p.demandBase * (perceived / valueReference) * (1 / math.Pow(priceFactor, priceExponent)) *
		(1 + 0.2*math.Log1p(addToCart*100)) * (1 + 0.06*math.Log1p(1000*revisit))

	season := seasonFactor(date.Month())
	demand = math.Max(0, demand*season*normal(1, 0.08))

	return schema.Observation{
		Date:            date.Format(time.DateOnly),
		ProductID:       productID,
		ProductType:     p.category,
		Price:           price,
		DiscountPct:     discountPct,
		EffectivePrice:  effective,
		CompetitorPrice: algo.Round(competitor, 2),
		InterestScore:   algo.Round(interest, 3),
		HesitationTime:  algo.Round(hesitation, 2),
		ScrollDepth:     algo.Round(scroll, 3),
		RevisitScore:    algo.Round(revisit, 3),
		AddToCartRate:   algo.Round(addToCart, 4),
		DiscountPref:    algo.Round(discountPref, 3),
		QualityScore:    algo.Round(quality, 3),
		BrandScore:      algo.Round(brand, 3),
		PerceivedValue:  algo.Round(perceived, 3),
		SeasonFactor:    season,
		Demand:          float64(algo.RoundInt(demand)),
		Revenue:         algo.Round(effective*demand, 2),
	}
}

// seasonFactor lifts demand in the holiday and mid-year sale months.
func seasonFactor(month time.Month) float64 {
	switch month {
	case time.November, time.December:
		return 1.25
	case time.June, time.July:
		return 1.15
	default:
		return 1.0
	}
}
