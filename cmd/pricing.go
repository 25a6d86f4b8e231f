package cmd

import (
	"github.com/huangsam/fairprice/core"
	"github.com/spf13/cobra"
)

// scenariosCmd runs the scenario catalog for every product.
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Rank guardrail-checked price scenarios by predicted revenue.",
	Long: `Score the dataset, estimate elasticities and run every pricing scenario.

For each product this:
- Computes the value perception score (VPS) of every month
- Builds the segment by competitor action elasticity matrix
- Derives the entry, mid and premium price ladder
- Checks each scenario price against floor, ceiling, margin and competitor gap
- Predicts demand and revenue at the resolved price

Examples:
  # Rank scenarios for every product
  fairprice scenarios --data data/behavioral_data.csv

  # Analyze one product with a fixed base price and cost
  fairprice scenarios --product P2 --base-price 95 --cost 55

  # Export ranked scenarios for a spreadsheet
  fairprice scenarios --output csv --output-file scenarios.csv`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("scenarios", core.ExecuteScenarios),
}

// matrixCmd prints the segmentation matrix.
var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Show price elasticity by value segment and competitor action.",
	Long: `Split each product's months into Bargain, Loyal and Premium segments by VPS
quantile and into undercut, neutral and premium competitor actions by price gap,
then estimate the price elasticity of every cell.

Cells without rows are reported with an undefined elasticity.

Examples:
  # Show the matrix of every product
  fairprice matrix

  # Use the first row of a mixed cell as its baseline category
  fairprice matrix --baseline-policy first

  # Write the matrix as Parquet for DuckDB
  fairprice matrix --output parquet --output-file matrix.parquet`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("matrix", core.ExecuteMatrix),
}

// ladderCmd prints price ladders.
var ladderCmd = &cobra.Command{
	Use:   "ladder",
	Short: "Derive entry, mid and premium price points.",
	Long: `Derive the three price anchors from a base price.

With --base-price and no --product no dataset is read. Otherwise the base price
of each product is the median effective price of its rows.

Examples:
  # Ladder for a known base price
  fairprice ladder --base-price 100

  # Ladders derived from the data
  fairprice ladder --data data/behavioral_data.csv`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("ladder", core.ExecuteLadder),
}

// guardrailsCmd evaluates one candidate price.
var guardrailsCmd = &cobra.Command{
	Use:   "guardrails",
	Short: "Check a candidate price against pricing constraints.",
	Long: `Evaluate a candidate price against floor, ceiling, margin and competitor gap
in that order. The first violated rule rejects the price and suggests a
corrected one. With --guardrail-passes above 1 the correction is re-checked
until it is accepted or stops changing.

Examples:
  # Margin check against a unit cost
  fairprice guardrails --price 90 --cost 80 --margin-threshold 0.2

  # Floor and competitor checks
  fairprice guardrails --price 40 --floor 45 --competitor-price 60 --min-gap -10`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("guardrails", core.ExecuteGuardrails),
}

// shockCmd predicts demand under an external shock.
var shockCmd = &cobra.Command{
	Use:   "shock",
	Short: "Predict demand under an external shock.",
	Long: `Scale the mean demand of each product by a shock multiplier.

Shock types:
- festival          demand rises with intensity
- competitor_flash  a competitor sale pulls demand down
- supply_shortage   scarcity pulls demand down
- viral             attention spikes demand

Unknown types leave demand unchanged.

Examples:
  fairprice shock --type festival --intensity 0.3
  fairprice shock --type supply_shortage --intensity 0.5 --product P1`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("shock", core.ExecuteShock),
}

// briefCmd writes the leadership brief.
var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Write a Markdown leadership brief of the pricing analysis.",
	Long: `Summarize the analysis as key insights and recommendations.

Examples:
  fairprice brief --output-file brief.md
  fairprice brief --output json`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("brief", core.ExecuteBrief),
}

// rulesCmd displays the active rule set.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Display the active pricing rules and their weights.",
	Long: `Show the VPS weights, segment quantiles, elasticity, ladder, scenario and
shock parameters in effect, including overrides from .fairprice.yaml.

No dataset is read; this is purely informational.

Examples:
  fairprice rules
  fairprice rules --config .fairprice.yaml --output yaml`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("rules", core.ExecuteRules),
}

// generateCmd writes a synthetic dataset.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a reproducible synthetic behavioral dataset.",
	Long: `Write monthly behavioral rows for a number of products. Product P1 is
Standard and the others are Premium. The same seed always yields the same data.

The destination is --output-file when given, else --data. A .parquet extension
writes Parquet; anything else writes CSV.

Examples:
  fairprice generate --products 3 --months 36 --seed 7
  fairprice generate --output-file data/behavioral_data.parquet`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("generate", core.ExecuteGenerate),
}
