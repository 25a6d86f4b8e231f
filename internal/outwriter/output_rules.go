package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/schema"
)

// ruleEntry is one named constant of the rule set.
type ruleEntry struct {
	Name  string
	Value string
}

// flattenRules lists every rule constant with a dotted name, in rule set order.
func flattenRules(r schema.RuleSet) []ruleEntry {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	entries := []ruleEntry{
		{"vps.quality", num(r.VPS.Quality)},
		{"vps.interest", num(r.VPS.Interest)},
		{"vps.brand", num(r.VPS.Brand)},
		{"vps.discount", num(r.VPS.Discount)},
		{"low_quantile", num(r.LowQuantile)},
		{"high_quantile", num(r.HighQuantile)},
		{"competitor_band", num(r.CompetitorBand)},
		{"elasticity.standard_base", num(r.Elasticity.StandardBase)},
		{"elasticity.premium_base", num(r.Elasticity.PremiumBase)},
		{"elasticity.low_vps_threshold", num(r.Elasticity.LowVPSThreshold)},
		{"elasticity.low_vps_modifier", num(r.Elasticity.LowVPSModifier)},
		{"elasticity.hesitation_threshold", num(r.Elasticity.HesitationThreshold)},
		{"elasticity.hesitation_modifier", num(r.Elasticity.HesitationModifier)},
		{"elasticity.undercut_gap", num(r.Elasticity.UndercutGap)},
		{"elasticity.undercut_modifier", num(r.Elasticity.UndercutModifier)},
		{"elasticity.premium_gap", num(r.Elasticity.PremiumGap)},
		{"elasticity.premium_modifier", num(r.Elasticity.PremiumModifier)},
		{"elasticity.decimals", strconv.Itoa(int(r.Elasticity.Decimals))},
		{"ladder.entry", num(r.Ladder.Entry)},
		{"ladder.mid", num(r.Ladder.Mid)},
		{"ladder.premium", num(r.Ladder.Premium)},
		{"ladder.decimals", strconv.Itoa(int(r.Ladder.Decimals))},
		{"scenario.margin_threshold", num(r.Scenario.MarginThreshold)},
		{"scenario.floor_ratio", num(r.Scenario.FloorRatio)},
		{"scenario.ceiling_ratio", num(r.Scenario.CeilingRatio)},
		{"scenario.min_competitor_gap", num(r.Scenario.MinCompetitorGap)},
		{"scenario.vps_reference", num(r.Scenario.VPSReference)},
		{"scenario.cost_ratio", num(r.Scenario.CostRatio)},
	}
	for _, m := range r.Scenario.Catalog {
		entries = append(entries,
			ruleEntry{fmt.Sprintf("scenario.%s.demand_mul", m.Name), num(m.DemandMul)},
			ruleEntry{fmt.Sprintf("scenario.%s.competitor_mul", m.Name), num(m.CompetitorMul)},
		)
	}
	for _, shock := range schema.AllShockTypes {
		slope, _ := r.ShockSlope(shock)
		entries = append(entries, ruleEntry{fmt.Sprintf("shock.%s", shock), num(slope)})
	}
	return append(entries, ruleEntry{"currency_decimals", strconv.Itoa(int(r.CurrencyDecimals))})
}

// WriteRules displays every constant of the active rule set.
func WriteRules(rules schema.RuleSet, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return unsupportedOutput(cfg.Output, "rules")
	}
	if isStructured(cfg.Output) {
		return writeStructured(cfg, rules)
	}

	entries := flattenRules(rules)
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Name, e.Value}
	}
	t := tabular{
		textHeader: []string{"Rule", "Value"},
		textRows:   rows,
		csvHeader:  []string{"rule", "value"},
		csvRows:    rows,
	}
	return writeTabular(cfg, t, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s: VPS = %s*quality + %s*interest + %s*brand - %s*discount_pref\n",
			title(cfg, "📐", "Pricing rules"),
			strconv.FormatFloat(rules.VPS.Quality, 'f', -1, 64),
			strconv.FormatFloat(rules.VPS.Interest, 'f', -1, 64),
			strconv.FormatFloat(rules.VPS.Brand, 'f', -1, 64),
			strconv.FormatFloat(rules.VPS.Discount, 'f', -1, 64))
		return err
	})
}
