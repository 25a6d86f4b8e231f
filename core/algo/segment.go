package algo

import (
	"fmt"

	"github.com/huangsam/fairprice/schema"
)

// SegmentThresholds returns the low and high vps quantiles of the whole table.
func SegmentThresholds(table schema.Table, rules schema.RuleSet) (float64, float64, error) {
	vps := table.Column(func(o schema.Observation) float64 { return o.VPS })
	if err := requireFinite("vps", vps...); err != nil {
		return 0, 0, err
	}
	q0, err := Quantile(vps, rules.LowQuantile)
	if err != nil {
		return 0, 0, err
	}
	q1, err := Quantile(vps, rules.HighQuantile)
	if err != nil {
		return 0, 0, err
	}
	return q0, q1, nil
}

// AssignSegment maps a vps to its segment. Values on a boundary go to the lower segment.
func AssignSegment(vps, q0, q1 float64) schema.Segment {
	switch {
	case vps <= q0:
		return schema.BargainSegment
	case vps <= q1:
		return schema.LoyalSegment
	default:
		return schema.PremiumSegment
	}
}

// ClassifyCompetitor maps a competitor gap (competitor minus effective price) to an action.
func ClassifyCompetitor(gap, band float64) schema.CompetitorAction {
	switch {
	case gap < -band:
		return schema.UndercutAction
	case gap > band:
		return schema.PremiumAction
	default:
		return schema.NeutralAction
	}
}

// baselineCategory picks the category whose baseline applies to a cell.
func baselineCategory(cell schema.Table, policy schema.BaselinePolicy) schema.Category {
	if policy == schema.FirstRowBaseline {
		return cell[0].ProductType
	}
	var standard, premium int
	for _, o := range cell {
		switch o.ProductType {
		case schema.StandardCategory:
			standard++
		case schema.PremiumCategory:
			premium++
		}
	}
	if premium > standard {
		return schema.PremiumCategory
	}
	return schema.StandardCategory
}

// ComputeElasticity returns the rule-based elasticity of one cell: a category
// baseline plus additive modifiers driven by the cell medians of vps,
// hesitation time and competitor gap, rounded to the configured decimals.
// An empty cell has no elasticity and yields ErrUndefinedStatistic.
func ComputeElasticity(cell schema.Table, rules schema.ElasticityRules, policy schema.BaselinePolicy) (float64, error) {
	if len(cell) == 0 {
		return 0, fmt.Errorf("%w: elasticity of an empty cell", schema.ErrUndefinedStatistic)
	}

	base := rules.StandardBase
	if baselineCategory(cell, policy) == schema.PremiumCategory {
		base = rules.PremiumBase
	}

	vps, err := Median(cell.Column(func(o schema.Observation) float64 { return o.VPS }))
	if err != nil {
		return 0, err
	}
	hesitation, err := Median(cell.Column(func(o schema.Observation) float64 { return o.HesitationTime }))
	if err != nil {
		return 0, err
	}
	gap, err := Median(cell.Column(schema.Observation.CompetitorGap))
	if err != nil {
		return 0, err
	}

	mod := 0.0
	if vps < rules.LowVPSThreshold {
		mod += rules.LowVPSModifier
	}
	if hesitation > rules.HesitationThreshold {
		mod += rules.HesitationModifier
	}
	if gap < rules.UndercutGap {
		mod += rules.UndercutModifier
	}
	if gap > rules.PremiumGap {
		mod += rules.PremiumModifier
	}
	return Round(base+mod, rules.Decimals), nil
}

// BuildSegmentationMatrix partitions a vps-scored table into value segments
// and competitor actions and computes the elasticity of every cell.
// Rows follow the canonical segment and action order; segments with no
// members are omitted, empty cells of present segments carry a nil elasticity.
func BuildSegmentationMatrix(table schema.Table, rules schema.RuleSet, policy schema.BaselinePolicy) (schema.SegmentMatrix, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: segmentation of an empty table", schema.ErrUndefinedStatistic)
	}
	if _, ok := schema.ValidBaselinePolicies[policy]; !ok {
		return nil, fmt.Errorf("%w: unknown baseline policy %q", schema.ErrConfiguration, policy)
	}
	if err := requireFinite("competitor_price", table.Column(func(o schema.Observation) float64 { return o.CompetitorPrice })...); err != nil {
		return nil, err
	}
	if err := requireFinite("effective_price", table.Column(func(o schema.Observation) float64 { return o.EffectivePrice })...); err != nil {
		return nil, err
	}
	if err := requireFinite("hesitation_time", table.Column(func(o schema.Observation) float64 { return o.HesitationTime })...); err != nil {
		return nil, err
	}

	q0, q1, err := SegmentThresholds(table, rules)
	if err != nil {
		return nil, err
	}

	cells := make(map[schema.Segment]map[schema.CompetitorAction]schema.Table)
	for _, o := range table {
		seg := AssignSegment(o.VPS, q0, q1)
		action := ClassifyCompetitor(o.CompetitorGap(), rules.CompetitorBand)
		if cells[seg] == nil {
			cells[seg] = make(map[schema.CompetitorAction]schema.Table)
		}
		cells[seg][action] = append(cells[seg][action], o)
	}

	var matrix schema.SegmentMatrix
	for _, seg := range schema.AllSegments {
		bins, ok := cells[seg]
		if !ok {
			continue
		}
		for _, action := range schema.AllCompetitorActions {
			cell := schema.SegmentCell{Segment: seg, CompetitorAction: action, Rows: len(bins[action])}
			if len(bins[action]) > 0 {
				e, err := ComputeElasticity(bins[action], rules.Elasticity, policy)
				if err != nil {
					return nil, err
				}
				cell.Elasticity = &e
			}
			matrix = append(matrix, cell)
		}
	}
	return matrix, nil
}
