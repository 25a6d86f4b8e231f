package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/fairprice/core/algo"
	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/internal/telemetry"
	"github.com/huangsam/fairprice/schema"
	"go.uber.org/zap"
)

// settingsFrom converts the validated configuration into pipeline settings.
func settingsFrom(cfg *contract.Config) algo.Settings {
	rules, baseline, passes := cfg.Settings()
	return algo.Settings{Rules: rules, Baseline: baseline, GuardrailPasses: passes}
}

// ResolveBasePrice returns the configured base price, or the median effective
// price of the rows rounded to the currency precision.
func ResolveBasePrice(rows schema.Table, cfg *contract.Config) (float64, error) {
	if cfg.BasePrice != nil {
		return *cfg.BasePrice, nil
	}
	median, err := algo.Median(rows.Column(func(o schema.Observation) float64 { return o.EffectivePrice }))
	if err != nil {
		return 0, err
	}
	base := algo.Round(median, cfg.Rules.CurrencyDecimals)
	if base <= 0 {
		return 0, fmt.Errorf("%w: median effective price %v is not a usable base price", schema.ErrInvalidInput, base)
	}
	return base, nil
}

// ResolveCost returns the configured unit cost, or the base price times the cost ratio.
func ResolveCost(basePrice float64, cfg *contract.Config) float64 {
	if cfg.Cost != nil {
		return *cfg.Cost
	}
	return algo.Round(basePrice*cfg.CostRatio, cfg.Rules.CurrencyDecimals)
}

// AnalyzeProduct runs the full pricing pipeline over the rows of one product.
func AnalyzeProduct(table schema.Table, productID string, cfg *contract.Config) (schema.ProductAnalysis, error) {
	rows := table.ForProduct(productID)
	if len(rows) == 0 {
		return schema.ProductAnalysis{}, fmt.Errorf("%w: product %q has no rows", schema.ErrUndefinedStatistic, productID)
	}
	settings := settingsFrom(cfg)

	scored, err := algo.ScoreTable(rows, settings.Rules.VPS)
	if err != nil {
		return schema.ProductAnalysis{}, err
	}
	matrix, err := algo.BuildSegmentationMatrix(scored, settings.Rules, settings.Baseline)
	if err != nil {
		return schema.ProductAnalysis{}, err
	}
	basePrice, err := ResolveBasePrice(rows, cfg)
	if err != nil {
		return schema.ProductAnalysis{}, err
	}
	cost := ResolveCost(basePrice, cfg)
	ladder, err := algo.BuildPriceLadder(basePrice, settings.Rules.Ladder)
	if err != nil {
		return schema.ProductAnalysis{}, err
	}
	baseline, err := algo.ComputeBaseline(scored, matrix)
	if err != nil {
		return schema.ProductAnalysis{}, err
	}
	scenarios, err := algo.SimulateScenarios(baseline, ladder, basePrice, cost, settings)
	if err != nil {
		return schema.ProductAnalysis{}, err
	}

	return schema.ProductAnalysis{
		ProductID:  productID,
		Category:   rows[0].ProductType,
		Rows:       len(rows),
		BasePrice:  basePrice,
		Cost:       cost,
		MedianVPS:  baseline.MedianVPS,
		MeanDemand: baseline.MeanDemand,
		Elasticity: baseline.Elasticity,
		Ladder:     ladder,
		Matrix:     matrix,
		Scenarios:  scenarios,
	}, nil
}

// loadProducts reads the dataset and resolves which products to analyze.
func loadProducts(ctx context.Context, cfg *contract.Config, loader contract.TableLoader) (schema.Table, []string, error) {
	table, err := loader.LoadTable(ctx, cfg.DataPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load dataset %s: %w", cfg.DataPath, err)
	}
	if len(table) == 0 {
		return nil, nil, fmt.Errorf("%w: dataset %s has no rows", schema.ErrUndefinedStatistic, cfg.DataPath)
	}
	telemetry.ObserveRows(len(table))

	if cfg.ProductFilter == "" {
		return table, table.Products(), nil
	}
	if len(table.ForProduct(cfg.ProductFilter)) == 0 {
		return nil, nil, fmt.Errorf("%w: product %q not found in %s", schema.ErrInvalidInput, cfg.ProductFilter, cfg.DataPath)
	}
	return table, []string{cfg.ProductFilter}, nil
}

// logAnalysisHeader prints a short summary of what is about to be analyzed.
func logAnalysisHeader(cfg *contract.Config, products int) {
	prefix := ""
	if cfg.UseEmojis {
		prefix = "🔎 "
	}
	fmt.Fprintf(os.Stderr, "%sData: %s (%d products, baseline: %s, guardrail passes: %d)\n",
		prefix, filepath.Base(cfg.DataPath), products, cfg.Baseline, cfg.GuardrailPasses)
}

// runConfigParams is the configuration snapshot stored with each run.
func runConfigParams(cfg *contract.Config, products []string) map[string]any {
	params := map[string]any{
		"data":             cfg.DataPath,
		"products":         products,
		"baseline":         string(cfg.Baseline),
		"guardrail_passes": cfg.GuardrailPasses,
		"cost_ratio":       cfg.CostRatio,
	}
	if cfg.BasePrice != nil {
		params["base_price"] = *cfg.BasePrice
	}
	if cfg.Cost != nil {
		params["cost"] = *cfg.Cost
	}
	return params
}

// GetScenarioResults loads the dataset, analyzes every selected product and
// records the run in the history store when one is configured.
// History failures are logged and never fail the analysis.
func GetScenarioResults(ctx context.Context, cfg *contract.Config, loader contract.TableLoader, mgr contract.HistoryManager) ([]schema.ProductAnalysis, error) {
	table, products, err := loadProducts(ctx, cfg, loader)
	if err != nil {
		return nil, err
	}
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, len(products))
	}

	// --- Begin run tracking (if configured) ---
	var store contract.HistoryStore
	if mgr != nil {
		store = mgr.GetHistoryStore()
	}
	if store != nil {
		runID, err := store.BeginRun(time.Now(), runConfigParams(cfg, products))
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		} else if runID > 0 {
			ctx = withRunID(ctx, runID)
		}
	}

	analyses := make([]schema.ProductAnalysis, 0, len(products))
	for _, productID := range products {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		analysis, err := AnalyzeProduct(table, productID, cfg)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", productID, err)
		}
		telemetry.ObserveAnalysis(analysis)
		recordAnalysis(ctx, store, analysis)
		analyses = append(analyses, analysis)
	}

	// --- End run tracking ---
	if runID, ok := getRunID(ctx); ok && store != nil {
		if err := store.EndRun(runID, time.Now(), len(analyses)); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}
	contract.LogInfo("analysis complete", zap.Int("products", len(analyses)), zap.String("data", cfg.DataPath))
	return analyses, nil
}

// recordAnalysis stores the results of one product under the current run.
func recordAnalysis(ctx context.Context, store contract.HistoryStore, analysis schema.ProductAnalysis) {
	runID, ok := getRunID(ctx)
	if !ok || store == nil {
		return
	}
	now := time.Now()
	if err := store.RecordScenarioResults(runID, analysis, now); err != nil {
		contract.LogWarn(fmt.Sprintf("Failed to record scenario results for %s", analysis.ProductID), err)
	}
	if err := store.RecordSegmentCells(runID, analysis.ProductID, analysis.Matrix, now); err != nil {
		contract.LogWarn(fmt.Sprintf("Failed to record segment cells for %s", analysis.ProductID), err)
	}
}
