package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/fairprice/core"
	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
	loader  contract.TableLoader
}

// productScenarios is the run_scenarios payload of one product.
type productScenarios struct {
	ProductID  string                          `json:"product_id"`
	BasePrice  float64                         `json:"base_price"`
	Cost       float64                         `json:"cost"`
	Elasticity float64                         `json:"elasticity"`
	Ladder     schema.PriceLadder              `json:"ladder"`
	Scenarios  []schema.EnrichedScenarioResult `json:"scenarios"`
}

// productMatrix is the build_matrix payload of one product.
type productMatrix struct {
	ProductID string               `json:"product_id"`
	Matrix    schema.SegmentMatrix `json:"matrix"`
}

// datasetConfig clones the base config with the dataset arguments of a request applied.
func (h *toolHandler) datasetConfig(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("data_path", ""); p != "" {
		cfg.DataPath = p
	}
	if p := request.GetString("product", ""); p != "" {
		cfg.ProductFilter = p
	}
	return cfg
}

// optionalFloat returns the numeric argument key, or nil when it is absent.
func optionalFloat(request mcp.CallToolRequest, key string) (*float64, error) {
	raw, ok := request.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	v, ok := raw.(float64)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a number", schema.ErrInvalidInput, key)
	}
	return &v, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRunScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.datasetConfig(request)
	basePrice, err := optionalFloat(request, "base_price")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if basePrice != nil {
		if *basePrice <= 0 {
			return mcp.NewToolResultError(fmt.Sprintf("%v: base_price must be positive", schema.ErrConfiguration)), nil
		}
		cfg.BasePrice = basePrice
	}
	cost, err := optionalFloat(request, "cost")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if cost != nil {
		cfg.Cost = cost
	}

	analyses, err := core.GetScenarioResults(core.WithSuppressHeader(ctx), cfg, h.loader, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	out := make([]productScenarios, 0, len(analyses))
	for _, a := range analyses {
		out = append(out, productScenarios{
			ProductID:  a.ProductID,
			BasePrice:  a.BasePrice,
			Cost:       a.Cost,
			Elasticity: a.Elasticity,
			Ladder:     a.Ladder,
			Scenarios:  schema.EnrichScenarios(a.ProductID, a.Scenarios),
		})
	}
	return jsonResult(out)
}

func (h *toolHandler) handleBuildMatrix(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.datasetConfig(request)
	if p := request.GetString("baseline_policy", ""); p != "" {
		cfg.Baseline = schema.BaselinePolicy(p)
		if _, ok := schema.ValidBaselinePolicies[cfg.Baseline]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid baseline policy '%s'. must be majority, first", p)), nil
		}
	}

	analyses, err := core.GetScenarioResults(core.WithSuppressHeader(ctx), cfg, h.loader, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	out := make([]productMatrix, 0, len(analyses))
	for _, a := range analyses {
		out = append(out, productMatrix{ProductID: a.ProductID, Matrix: a.Matrix})
	}
	return jsonResult(out)
}

func (h *toolHandler) handlePriceLadder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	basePrice, err := request.RequireFloat("base_price")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if basePrice <= 0 {
		return mcp.NewToolResultError(fmt.Sprintf("%v: base_price must be positive", schema.ErrConfiguration)), nil
	}
	cfg := h.baseCfg.Clone()
	cfg.BasePrice = &basePrice
	cfg.ProductFilter = ""

	reports, err := core.GetLadderReports(ctx, cfg, h.loader)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ladder failed: %v", err)), nil
	}
	return jsonResult(reports[0])
}

func (h *toolHandler) handleEvaluateGuardrails(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	price, err := request.RequireFloat("price")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg := h.baseCfg.Clone()
	cfg.CandidatePrice = price
	cfg.Guardrail = schema.GuardrailParams{
		Cost:             request.GetFloat("cost", 0),
		MarginThreshold:  request.GetFloat("margin_threshold", contract.DefaultMarginThreshold),
		MinCompetitorGap: request.GetFloat("min_gap", contract.DefaultMinGap),
	}
	for key, target := range map[string]**float64{
		"floor":            &cfg.Guardrail.Floor,
		"ceiling":          &cfg.Guardrail.Ceiling,
		"competitor_price": &cfg.Guardrail.CompetitorPrice,
	} {
		if *target, err = optionalFloat(request, key); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if passes := request.GetInt("passes", 0); passes != 0 {
		cfg.GuardrailPasses = passes
	}

	report, err := core.GetGuardrailReport(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid guardrail parameters: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleApplyShock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	shockType, err := request.RequireString("shock_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	intensity, err := request.RequireFloat("intensity")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg := h.datasetConfig(request)
	cfg.ShockType = contract.NormalizeShockType(shockType)
	cfg.Intensity = intensity

	reports, err := core.GetShockReports(ctx, cfg, h.loader)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("shock prediction failed: %v", err)), nil
	}
	return jsonResult(reports)
}
