package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/internal/parquet"
	"github.com/huangsam/fairprice/schema"
)

// scenarioReport is the structured shape of one product's scenario output.
type scenarioReport struct {
	ProductID  string                          `json:"product_id" yaml:"product_id"`
	Category   schema.Category                 `json:"product_type" yaml:"product_type"`
	BasePrice  float64                         `json:"base_price" yaml:"base_price"`
	Cost       float64                         `json:"cost" yaml:"cost"`
	Elasticity float64                         `json:"elasticity" yaml:"elasticity"`
	Ladder     schema.PriceLadder              `json:"ladder" yaml:"ladder"`
	Scenarios  []schema.EnrichedScenarioResult `json:"scenarios" yaml:"scenarios"`
}

// WriteScenarioResults outputs the scenario results of every analyzed product,
// dispatching based on the output format configured.
func WriteScenarioResults(analyses []schema.ProductAnalysis, cfg *contract.Config, duration time.Duration) error {
	switch {
	case cfg.Output == schema.ParquetOut:
		return writeScenarioParquet(analyses, cfg)
	case isStructured(cfg.Output):
		reports := make([]scenarioReport, len(analyses))
		for i, a := range analyses {
			reports[i] = scenarioReport{
				ProductID:  a.ProductID,
				Category:   a.Category,
				BasePrice:  a.BasePrice,
				Cost:       a.Cost,
				Elasticity: a.Elasticity,
				Ladder:     a.Ladder,
				Scenarios:  schema.EnrichScenarios(a.ProductID, a.Scenarios),
			}
		}
		return writeStructured(cfg, reports)
	}

	fmtFloat, intFmt := createFormatters(cfg.Precision)
	t := tabular{
		textHeader: []string{"Product", "Rank", "Scenario", "Price", "Demand", "Revenue", "Label"},
		csvHeader:  []string{"product_id", "rank", "scenario", "candidate_price", "predicted_demand", "predicted_revenue", "reason", "label"},
	}
	productWidth := getMaxProductWidth(cfg)
	for _, a := range analyses {
		for _, r := range schema.EnrichScenarios(a.ProductID, a.Scenarios) {
			t.textRows = append(t.textRows, []string{
				contract.TruncateText(r.ProductID, productWidth),
				strconv.Itoa(r.Rank),
				string(r.Scenario),
				fmtFloat(r.CandidatePrice),
				fmt.Sprintf(intFmt, r.PredictedDemand),
				fmtFloat(r.PredictedRevenue),
				reasonLabel(r.Reason, cfg.UseColors),
			})
			t.csvRows = append(t.csvRows, []string{
				r.ProductID,
				strconv.Itoa(r.Rank),
				string(r.Scenario),
				fmtFloat(r.CandidatePrice),
				fmt.Sprintf(intFmt, r.PredictedDemand),
				fmtFloat(r.PredictedRevenue),
				string(r.Reason),
				r.Label,
			})
		}
	}
	return writeTabular(cfg, t, func(w io.Writer) error {
		for _, a := range analyses {
			if _, err := fmt.Fprintf(w, "%s: base price %s, cost %s, elasticity %s\n",
				a.ProductID, fmtFloat(a.BasePrice), fmtFloat(a.Cost), strconv.FormatFloat(a.Elasticity, 'f', -1, 64)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "Analyzed %d products in %v\n", len(analyses), duration)
		return err
	})
}

// writeScenarioParquet writes every ranked scenario row to a Parquet file.
func writeScenarioParquet(analyses []schema.ProductAnalysis, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("%w: parquet output requires --output-file", schema.ErrConfiguration)
	}
	var results []schema.EnrichedScenarioResult
	basePrices := make(map[string]float64, len(analyses))
	for _, a := range analyses {
		results = append(results, schema.EnrichScenarios(a.ProductID, a.Scenarios)...)
		basePrices[a.ProductID] = a.BasePrice
	}
	if err := parquet.WriteEnrichedScenariosParquet(results, basePrices, cfg.OutputFile); err != nil {
		return fmt.Errorf("error writing Parquet output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}
