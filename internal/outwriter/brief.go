package outwriter

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/schema"
)

// Placeholders written when a brief section has no entries.
const (
	PendingInsights        = "- Insight generation is pending. Run fairprice analysis to populate."
	PendingRecommendations = "- Recommendations pending. Run fairprice scenario engine and review results."
)

// Brief is a short leadership summary of a pricing run.
type Brief struct {
	Date            string   `json:"date" yaml:"date"`
	Insights        []string `json:"insights" yaml:"insights"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

// BuildBrief derives insights and recommendations from product analyses.
// Products appear in the order given.
func BuildBrief(analyses []schema.ProductAnalysis, date time.Time, precision int) Brief {
	fmtFloat, _ := createFormatters(precision)
	brief := Brief{Date: date.UTC().Format(contract.DateFormat)}

	for _, a := range analyses {
		brief.Insights = append(brief.Insights, fmt.Sprintf(
			"%s (%s): median VPS %s over %d months; price elasticity %s.",
			a.ProductID, a.Category, fmtFloat(a.MedianVPS), a.Rows, formatPlain(a.Elasticity)))

		ordered := a.Scenarios.Ordered()
		if len(ordered) > 0 {
			best := slices.MaxFunc(ordered, byRevenue)
			worst := slices.MinFunc(ordered, byRevenue)
			brief.Insights = append(brief.Insights, fmt.Sprintf(
				"%s: revenue ranges from %s (%s) to %s (%s), a spread of %s.",
				a.ProductID, fmtFloat(worst.PredictedRevenue), worst.Scenario,
				fmtFloat(best.PredictedRevenue), best.Scenario,
				fmtFloat(best.PredictedRevenue-worst.PredictedRevenue)))
		}

		if cell, ok := mostElasticCell(a.Matrix); ok {
			brief.Insights = append(brief.Insights, fmt.Sprintf(
				"%s: the most price-sensitive cell is %s / %s (elasticity %s, %d rows).",
				a.ProductID, cell.Segment, cell.CompetitorAction, formatPlain(*cell.Elasticity), cell.Rows))
		}
		if undefined := len(a.Matrix) - len(a.Matrix.DefinedElasticities()); undefined > 0 {
			brief.Insights = append(brief.Insights, fmt.Sprintf(
				"%s: %d of %d segmentation cells have no observations.", a.ProductID, undefined, len(a.Matrix)))
		}

		if expected, ok := a.Scenarios[schema.ExpectedScenario]; ok {
			if expected.Reason == schema.ReasonOK {
				brief.Recommendations = append(brief.Recommendations, fmt.Sprintf(
					"%s: list at %s, which passes every guardrail in the Expected scenario.",
					a.ProductID, fmtFloat(expected.CandidatePrice)))
			} else {
				brief.Recommendations = append(brief.Recommendations, fmt.Sprintf(
					"%s: list at %s; the Expected candidate was corrected for %s.",
					a.ProductID, fmtFloat(expected.CandidatePrice), expected.Reason))
			}
		}

		var corrected []string
		for _, r := range ordered {
			if r.Reason != schema.ReasonOK {
				corrected = append(corrected, fmt.Sprintf("%s: %s", r.Scenario, r.Reason))
			}
		}
		if len(corrected) > 0 {
			brief.Recommendations = append(brief.Recommendations, fmt.Sprintf(
				"%s: review pricing constraints, %d of %d scenarios needed guardrail corrections (%s).",
				a.ProductID, len(corrected), len(ordered), strings.Join(corrected, "; ")))
		}

		brief.Recommendations = append(brief.Recommendations, fmt.Sprintf(
			"%s: anchor the range at %s entry, %s mid and %s premium.",
			a.ProductID, fmtFloat(a.Ladder.Entry), fmtFloat(a.Ladder.Mid), fmtFloat(a.Ladder.Premium)))
	}
	return brief
}

// RenderBrief writes a brief as Markdown.
func RenderBrief(w io.Writer, brief Brief) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# fairprice Leadership Brief — %s\n\n", brief.Date)
	sb.WriteString("## Key Insights\n\n")
	writeNumbered(&sb, brief.Insights, PendingInsights)
	sb.WriteString("\n## Recommendations\n\n")
	writeNumbered(&sb, brief.Recommendations, PendingRecommendations)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeNumbered(sb *strings.Builder, items []string, placeholder string) {
	if len(items) == 0 {
		sb.WriteString(placeholder + "\n")
		return
	}
	for i, item := range items {
		fmt.Fprintf(sb, "%d. %s\n", i+1, item)
	}
}

// WriteBrief builds and outputs the leadership brief.
func WriteBrief(analyses []schema.ProductAnalysis, cfg *contract.Config, date time.Time) error {
	brief := BuildBrief(analyses, date, cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut, schema.YAMLOut:
		return writeStructured(cfg, brief)
	case schema.CSVOut, schema.ParquetOut:
		return unsupportedOutput(cfg.Output, "the brief")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return RenderBrief(w, brief)
		}, "Wrote brief")
	}
}

// mostElasticCell returns the defined cell with the most negative elasticity.
// Ties keep matrix order.
func mostElasticCell(matrix schema.SegmentMatrix) (schema.SegmentCell, bool) {
	var best schema.SegmentCell
	found := false
	for _, c := range matrix {
		if !c.Defined() {
			continue
		}
		if !found || *c.Elasticity < *best.Elasticity {
			best = c
			found = true
		}
	}
	return best, found
}

func byRevenue(x, y schema.ScenarioResult) int {
	return cmp.Compare(x.PredictedRevenue, y.PredictedRevenue)
}

func formatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
