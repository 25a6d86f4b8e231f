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

// matrixReport is the structured shape of one product's segmentation matrix.
type matrixReport struct {
	ProductID string               `json:"product_id" yaml:"product_id"`
	Matrix    schema.SegmentMatrix `json:"matrix" yaml:"matrix"`
}

// WriteMatrixResults outputs the segmentation matrix of every analyzed product.
func WriteMatrixResults(analyses []schema.ProductAnalysis, cfg *contract.Config) error {
	switch {
	case cfg.Output == schema.ParquetOut:
		return writeMatrixParquet(analyses, cfg)
	case isStructured(cfg.Output):
		reports := make([]matrixReport, len(analyses))
		for i, a := range analyses {
			reports[i] = matrixReport{ProductID: a.ProductID, Matrix: a.Matrix}
		}
		return writeStructured(cfg, reports)
	}

	t := tabular{
		textHeader: []string{"Product", "Segment", "Competitor", "Elasticity", "Rows"},
		csvHeader:  []string{"product_id", "segment", "competitor_action", "elasticity", "rows"},
	}
	undefined := 0
	productWidth := getMaxProductWidth(cfg)
	for _, a := range analyses {
		for _, c := range a.Matrix {
			if !c.Defined() {
				undefined++
			}
			t.textRows = append(t.textRows, []string{
				contract.TruncateText(a.ProductID, productWidth),
				string(c.Segment),
				string(c.CompetitorAction),
				contract.FormatElasticity(c.Elasticity, int(cfg.Rules.Elasticity.Decimals), cfg.UseColors),
				strconv.Itoa(c.Rows),
			})
			csvElasticity := ""
			if c.Elasticity != nil {
				csvElasticity = strconv.FormatFloat(*c.Elasticity, 'f', -1, 64)
			}
			t.csvRows = append(t.csvRows, []string{
				a.ProductID,
				string(c.Segment),
				string(c.CompetitorAction),
				csvElasticity,
				strconv.Itoa(c.Rows),
			})
		}
	}
	return writeTabular(cfg, t, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s: %d cells, %d undefined\n",
			title(cfg, "🧮", "Segmentation matrix"), len(t.textRows), undefined)
		return err
	})
}

// writeMatrixParquet writes the matrix cells in the same layout as the history export.
func writeMatrixParquet(analyses []schema.ProductAnalysis, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("%w: parquet output requires --output-file", schema.ErrConfiguration)
	}
	now := time.Now().UTC()
	var records []schema.SegmentCellRecord
	for _, a := range analyses {
		for _, c := range a.Matrix {
			records = append(records, schema.SegmentCellRecord{
				ProductID:        a.ProductID,
				Segment:          string(c.Segment),
				CompetitorAction: string(c.CompetitorAction),
				AnalysisTime:     now,
				Elasticity:       c.Elasticity,
				CellRows:         int32(c.Rows),
			})
		}
	}
	if err := parquet.WriteSegmentCellsParquet(parquet.ConvertSegmentCellRecords(records), cfg.OutputFile); err != nil {
		return fmt.Errorf("error writing Parquet output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}
