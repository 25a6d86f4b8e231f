// Package cmd defines the command-line interface for fairprice.
package cmd

import (
	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(ladderCmd)
	rootCmd.AddCommand(guardrailsCmd)
	rootCmd.AddCommand(shockCmd)
	rootCmd.AddCommand(briefCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("data", "d", contract.DefaultDataPath, "Path to the behavioral dataset (CSV or Parquet)")
	rootCmd.PersistentFlags().StringP("product", "p", "", "Restrict the analysis to one product ID")
	rootCmd.PersistentFlags().String("base-price", "", "Base price (defaults to the median effective price of each product)")
	rootCmd.PersistentFlags().String("cost", "", "Unit cost (defaults to base price times --cost-ratio)")
	rootCmd.PersistentFlags().Float64("cost-ratio", contract.DefaultCostRatio, "Cost as a share of the base price when --cost is not set")
	rootCmd.PersistentFlags().Int("guardrail-passes", contract.DefaultGuardrailPasses, "Maximum guardrail passes per candidate price")
	rootCmd.PersistentFlags().String("baseline-policy", string(schema.MajorityBaseline), "Baseline category of mixed cells: majority or first")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet or markdown")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics in textfile format to this path")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of shockCmd to Viper
	shockCmd.Flags().String("type", string(schema.FestivalShock), "Shock type: festival or competitor_flash or supply_shortage or viral")
	shockCmd.Flags().Float64("intensity", contract.DefaultIntensity, "Shock intensity, usually between 0 and 1")
	if err := viper.BindPFlags(shockCmd.Flags()); err != nil {
		contract.LogFatal("Error binding shock flags", err)
	}

	// Bind all flags of guardrailsCmd to Viper
	guardrailsCmd.Flags().Float64("price", 0, "Candidate price to evaluate")
	guardrailsCmd.Flags().Float64("margin-threshold", contract.DefaultMarginThreshold, "Minimum margin, below 1")
	guardrailsCmd.Flags().String("floor", "", "Lowest allowed price")
	guardrailsCmd.Flags().String("ceiling", "", "Highest allowed price")
	guardrailsCmd.Flags().String("competitor-price", "", "Competitor price for the gap check")
	guardrailsCmd.Flags().Float64("min-gap", contract.DefaultMinGap, "Minimum gap between the price and the competitor price")
	if err := viper.BindPFlags(guardrailsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding guardrails flags", err)
	}

	// Bind all flags of generateCmd to Viper
	generateCmd.Flags().Int("products", contract.DefaultProducts, "Number of products to generate")
	generateCmd.Flags().Int("months", contract.DefaultMonths, "Number of monthly rows per product")
	generateCmd.Flags().Int64("seed", contract.DefaultSeed, "Random seed")
	generateCmd.Flags().String("start", contract.DefaultGenerateStart.Format(contract.DateFormat), "First month (YYYY-MM-DD)")
	if err := viper.BindPFlags(generateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding generate flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
