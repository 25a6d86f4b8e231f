// Package core has core logic for pricing analysis and its command entry points.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/fairprice/core/algo"
	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/internal/dataset"
	"github.com/huangsam/fairprice/internal/generator"
	"github.com/huangsam/fairprice/internal/outwriter"
	"github.com/huangsam/fairprice/internal/telemetry"
	"github.com/huangsam/fairprice/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

// ExecuteScenarios analyzes the dataset and prints the scenario results.
// It serves as the main entry point for the 'scenarios' command.
func ExecuteScenarios(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	analyses, err := GetScenarioResults(ctx, cfg, dataset.NewFileLoader(), mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteScenarios(analyses, cfg, time.Since(start))
}

// ExecuteMatrix analyzes the dataset and prints the segmentation matrix of each product.
func ExecuteMatrix(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	analyses, err := GetScenarioResults(ctx, cfg, dataset.NewFileLoader(), mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteMatrix(analyses, cfg)
}

// ExecuteLadder prints price ladders. A configured base price needs no dataset;
// otherwise each product's base price is derived from its rows.
func ExecuteLadder(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	reports, err := GetLadderReports(ctx, cfg, dataset.NewFileLoader())
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteLadder(reports, cfg)
}

// GetLadderReports builds the price ladder of each selected product, or a single
// unlabeled ladder when only a base price is configured.
func GetLadderReports(ctx context.Context, cfg *contract.Config, loader contract.TableLoader) ([]schema.LadderReport, error) {
	if cfg.BasePrice != nil && cfg.ProductFilter == "" {
		ladder, err := algo.BuildPriceLadder(*cfg.BasePrice, cfg.Rules.Ladder)
		if err != nil {
			return nil, err
		}
		return []schema.LadderReport{{BasePrice: *cfg.BasePrice, Ladder: ladder}}, nil
	}

	table, products, err := loadProducts(ctx, cfg, loader)
	if err != nil {
		return nil, err
	}
	reports := make([]schema.LadderReport, 0, len(products))
	for _, productID := range products {
		base, err := ResolveBasePrice(table.ForProduct(productID), cfg)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", productID, err)
		}
		ladder, err := algo.BuildPriceLadder(base, cfg.Rules.Ladder)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", productID, err)
		}
		reports = append(reports, schema.LadderReport{ProductID: productID, BasePrice: base, Ladder: ladder})
	}
	return reports, nil
}

// ExecuteGuardrails evaluates a single candidate price against the configured constraints.
func ExecuteGuardrails(_ context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	report, err := GetGuardrailReport(cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteGuardrail(report, cfg)
}

// GetGuardrailReport enforces the guardrails on the configured candidate price.
func GetGuardrailReport(cfg *contract.Config) (schema.GuardrailReport, error) {
	decision, err := algo.EnforceGuardrails(cfg.CandidatePrice, cfg.Guardrail, cfg.GuardrailPasses)
	if err != nil {
		return schema.GuardrailReport{}, err
	}
	telemetry.GuardrailOutcomes.WithLabelValues(string(decision.Reason)).Inc()
	return schema.GuardrailReport{
		CandidatePrice: cfg.CandidatePrice,
		Params:         cfg.Guardrail,
		Decision:       decision,
	}, nil
}

// ExecuteShock predicts the demand of each product under the configured shock.
func ExecuteShock(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	reports, err := GetShockReports(ctx, cfg, dataset.NewFileLoader())
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteShock(reports, cfg)
}

// GetShockReports predicts the shocked demand of each selected product.
func GetShockReports(ctx context.Context, cfg *contract.Config, loader contract.TableLoader) ([]schema.ShockReport, error) {
	if _, known := cfg.Rules.ShockSlope(cfg.ShockType); !known {
		contract.LogWarn("Unknown shock type leaves demand unchanged", fmt.Errorf("shock type %q", cfg.ShockType))
	}
	table, products, err := loadProducts(ctx, cfg, loader)
	if err != nil {
		return nil, err
	}
	reports := make([]schema.ShockReport, 0, len(products))
	for _, productID := range products {
		result, err := algo.ApplyShock(table.ForProduct(productID), cfg.ShockType, cfg.Intensity, cfg.Rules)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", productID, err)
		}
		reports = append(reports, schema.ShockReport{ProductID: productID, ShockResult: result})
	}
	return reports, nil
}

// ExecuteGenerate writes a synthetic behavioral dataset.
// The destination is --output-file when given, else the data path.
func ExecuteGenerate(_ context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	table, err := generator.Generate(generator.Options{
		Products: cfg.Products,
		Months:   cfg.Months,
		Seed:     cfg.Seed,
		Start:    cfg.GenerateStart,
	})
	if err != nil {
		return err
	}
	path := cfg.OutputFile
	if path == "" {
		path = cfg.DataPath
	}
	if err := dataset.Save(path, table, false); err != nil {
		return err
	}
	telemetry.ObserveRows(len(table))
	fmt.Fprintf(os.Stderr, "💾 Wrote %d rows to %s\n", len(table), path)
	return nil
}

// ExecuteBrief analyzes the dataset and prints the leadership brief.
func ExecuteBrief(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	analyses, err := GetScenarioResults(ctx, cfg, dataset.NewFileLoader(), mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteBrief(analyses, cfg, time.Now())
}

// ExecuteRules prints the active rule set.
func ExecuteRules(_ context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	return outwriter.NewOutWriter().WriteRules(cfg.Rules, cfg)
}
