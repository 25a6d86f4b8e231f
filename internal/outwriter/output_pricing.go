package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/schema"
)

// WriteLadderResults outputs one price ladder per report.
func WriteLadderResults(reports []schema.LadderReport, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return unsupportedOutput(cfg.Output, "price ladders")
	}
	if isStructured(cfg.Output) {
		return writeStructured(cfg, reports)
	}

	fmtFloat, _ := createFormatters(cfg.Precision)
	t := tabular{
		textHeader: []string{"Product", "Base", "Entry", "Mid", "Premium"},
		csvHeader:  []string{"product_id", "base_price", "entry", "mid", "premium"},
	}
	productWidth := getMaxProductWidth(cfg)
	for _, r := range reports {
		row := []string{
			r.ProductID,
			fmtFloat(r.BasePrice),
			fmtFloat(r.Ladder.Entry),
			fmtFloat(r.Ladder.Mid),
			fmtFloat(r.Ladder.Premium),
		}
		t.csvRows = append(t.csvRows, row)
		textRow := append([]string{contract.TruncateText(r.ProductID, productWidth)}, row[1:]...)
		if r.ProductID == "" {
			textRow[0] = "-"
		}
		t.textRows = append(t.textRows, textRow)
	}
	return writeTabular(cfg, t, nil)
}

// WriteGuardrailResult outputs a single guardrail evaluation.
func WriteGuardrailResult(report schema.GuardrailReport, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return unsupportedOutput(cfg.Output, "guardrail evaluations")
	}
	if isStructured(cfg.Output) {
		return writeStructured(cfg, report)
	}

	fmtFloat, intFmt := createFormatters(cfg.Precision)
	d := report.Decision
	row := []string{
		fmtFloat(report.CandidatePrice),
		fmtFloat(d.Price),
		fmt.Sprintf("%t", d.Accepted),
		string(d.Reason),
		fmt.Sprintf(intFmt, d.Passes),
	}
	textRow := append([]string{}, row...)
	textRow[3] = reasonLabel(d.Reason, cfg.UseColors)
	t := tabular{
		textHeader: []string{"Candidate", "Price", "Accepted", "Label", "Passes"},
		textRows:   [][]string{textRow},
		csvHeader:  []string{"candidate_price", "price", "accepted", "reason", "passes"},
		csvRows:    [][]string{row},
	}
	return writeTabular(cfg, t, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s: %s\n", title(cfg, "🛡️", "Reason"), d.Reason)
		return err
	})
}

// WriteShockResults outputs one shock prediction per product.
func WriteShockResults(reports []schema.ShockReport, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return unsupportedOutput(cfg.Output, "shock simulations")
	}
	if isStructured(cfg.Output) {
		return writeStructured(cfg, reports)
	}

	fmtFloat, intFmt := createFormatters(cfg.Precision)
	t := tabular{
		textHeader: []string{"Product", "Shock", "Intensity", "Base Demand", "Multiplier", "Predicted"},
		csvHeader:  []string{"product_id", "shock_type", "intensity", "base_demand", "multiplier", "predicted_demand"},
	}
	productWidth := getMaxProductWidth(cfg)
	for _, r := range reports {
		row := []string{
			r.ProductID,
			string(r.ShockType),
			fmtFloat(r.Intensity),
			fmtFloat(r.BaseDemand),
			fmtFloat(r.Multiplier),
			fmt.Sprintf(intFmt, r.PredictedDemand),
		}
		t.csvRows = append(t.csvRows, row)
		t.textRows = append(t.textRows, append([]string{contract.TruncateText(r.ProductID, productWidth)}, row[1:]...))
	}
	return writeTabular(cfg, t, nil)
}
