// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteScenarios prints scenario results using the configured output format.
func (ow *OutWriter) WriteScenarios(analyses []schema.ProductAnalysis, cfg *contract.Config, duration time.Duration) error {
	return WriteScenarioResults(analyses, cfg, duration)
}

// WriteMatrix prints segmentation matrices using the configured output format.
func (ow *OutWriter) WriteMatrix(analyses []schema.ProductAnalysis, cfg *contract.Config) error {
	return WriteMatrixResults(analyses, cfg)
}

// WriteLadder prints price ladders using the configured output format.
func (ow *OutWriter) WriteLadder(reports []schema.LadderReport, cfg *contract.Config) error {
	return WriteLadderResults(reports, cfg)
}

// WriteGuardrail prints a guardrail evaluation using the configured output format.
func (ow *OutWriter) WriteGuardrail(report schema.GuardrailReport, cfg *contract.Config) error {
	return WriteGuardrailResult(report, cfg)
}

// WriteShock prints shock predictions using the configured output format.
func (ow *OutWriter) WriteShock(reports []schema.ShockReport, cfg *contract.Config) error {
	return WriteShockResults(reports, cfg)
}

// WriteRules prints the active rule set using the configured output format.
func (ow *OutWriter) WriteRules(rules schema.RuleSet, cfg *contract.Config) error {
	return WriteRules(rules, cfg)
}

// WriteBrief prints the leadership brief using the configured output format.
func (ow *OutWriter) WriteBrief(analyses []schema.ProductAnalysis, cfg *contract.Config, date time.Time) error {
	return WriteBrief(analyses, cfg, date)
}
