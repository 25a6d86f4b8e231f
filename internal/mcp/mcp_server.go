// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/internal/dataset"
	"github.com/huangsam/fairprice/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the fairprice MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"fairprice Pricing Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		loader:  dataset.NewFileLoader(),
	}

	// --- 1. Tool: run_scenarios ---
	s.AddTool(mcp.NewTool("run_scenarios",
		mcp.WithDescription("Run the pricing scenario catalog over a behavioral dataset and rank the guardrail-checked prices by predicted revenue."),
		mcp.WithString("data_path", mcp.Description("Path to the behavioral dataset (CSV or Parquet).")),
		mcp.WithString("product", mcp.Description("Restrict the analysis to one product ID.")),
		mcp.WithNumber("base_price", mcp.Description("Base price; defaults to the median effective price of each product.")),
		mcp.WithNumber("cost", mcp.Description("Unit cost; defaults to the base price times the cost ratio.")),
	), h.handleRunScenarios)

	// --- 2. Tool: build_matrix ---
	s.AddTool(mcp.NewTool("build_matrix",
		mcp.WithDescription("Build the segment by competitor action elasticity matrix of each product."),
		mcp.WithString("data_path", mcp.Description("Path to the behavioral dataset (CSV or Parquet).")),
		mcp.WithString("product", mcp.Description("Restrict the analysis to one product ID.")),
		mcp.WithString("baseline_policy", mcp.Description("Baseline category policy for mixed cells."), mcp.Enum(string(schema.MajorityBaseline), string(schema.FirstRowBaseline))),
	), h.handleBuildMatrix)

	// --- 3. Tool: price_ladder ---
	s.AddTool(mcp.NewTool("price_ladder",
		mcp.WithDescription("Derive the entry, mid and premium price points from a base price."),
		mcp.WithNumber("base_price", mcp.Description("Positive base price."), mcp.Required()),
	), h.handlePriceLadder)

	// --- 4. Tool: evaluate_guardrails ---
	s.AddTool(mcp.NewTool("evaluate_guardrails",
		mcp.WithDescription("Check a candidate price against floor, ceiling, margin and competitor gap constraints."),
		mcp.WithNumber("price", mcp.Description("Candidate price."), mcp.Required()),
		mcp.WithNumber("cost", mcp.Description("Unit cost used for the margin check.")),
		mcp.WithNumber("margin_threshold", mcp.Description("Minimum margin, below 1. Defaults to 0.20.")),
		mcp.WithNumber("floor", mcp.Description("Lowest allowed price.")),
		mcp.WithNumber("ceiling", mcp.Description("Highest allowed price.")),
		mcp.WithNumber("competitor_price", mcp.Description("Competitor price for the gap check.")),
		mcp.WithNumber("min_gap", mcp.Description("Minimum gap to the competitor price. Defaults to -10.")),
		mcp.WithNumber("passes", mcp.Description("Maximum guardrail passes.")),
	), h.handleEvaluateGuardrails)

	// --- 5. Tool: apply_shock ---
	s.AddTool(mcp.NewTool("apply_shock",
		mcp.WithDescription("Predict the demand of each product under an external shock."),
		mcp.WithString("shock_type", mcp.Description("Kind of shock: festival, competitor_flash, supply_shortage or viral. Unknown kinds leave demand unchanged."), mcp.Required()),
		mcp.WithNumber("intensity", mcp.Description("Shock intensity, usually between 0 and 1."), mcp.Required()),
		mcp.WithString("data_path", mcp.Description("Path to the behavioral dataset (CSV or Parquet).")),
		mcp.WithString("product", mcp.Description("Restrict the prediction to one product ID.")),
	), h.handleApplyShock)

	return s
}

// StartMCPServer starts the fairprice MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
