package contract

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/fairprice/schema"
)

// Default values for configuration.
const (
	DefaultDataPath        = "data/behavioral_data.csv"
	DefaultPrecision       = 2
	MaxPrecision           = 4
	DefaultGuardrailPasses = 1
	MaxGuardrailPasses     = 10
	DefaultCostRatio       = 0.6
	DefaultIntensity       = 0.25
	DefaultProducts        = 2
	DefaultMonths          = 24
	DefaultSeed            = 42
	DefaultMarginThreshold = 0.20
	DefaultMinGap          = -10.0
)

// DateFormat is the calendar date representation used by datasets.
const DateFormat = time.DateOnly

// DefaultGenerateStart is the first month of generated datasets.
var DefaultGenerateStart = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// RulesRawInput holds rule overrides from the YAML config file.
// Pointer fields are optional; nil keeps the reference value.
type RulesRawInput struct {
	QualityWeight    *float64 `mapstructure:"quality_weight"`
	InterestWeight   *float64 `mapstructure:"interest_weight"`
	BrandWeight      *float64 `mapstructure:"brand_weight"`
	DiscountWeight   *float64 `mapstructure:"discount_weight"`
	LowQuantile      *float64 `mapstructure:"low_quantile"`
	HighQuantile     *float64 `mapstructure:"high_quantile"`
	CompetitorBand   *float64 `mapstructure:"competitor_band"`
	MarginThreshold  *float64 `mapstructure:"margin_threshold"`
	FloorRatio       *float64 `mapstructure:"floor_ratio"`
	CeilingRatio     *float64 `mapstructure:"ceiling_ratio"`
	MinCompetitorGap *float64 `mapstructure:"min_competitor_gap"`
}

// Config holds the runtime configuration for the pipeline.
// This struct remains the "final, validated" config.
type Config struct {
	DataPath      string
	ProductFilter string
	BasePrice     *float64 // nil derives it from the data
	Cost          *float64 // nil derives it from the base price
	CostRatio     float64

	GuardrailPasses int
	Baseline        schema.BaselinePolicy
	Rules           schema.RuleSet

	ShockType schema.ShockType
	Intensity float64

	// Standalone guardrail evaluation
	CandidatePrice float64
	Guardrail      schema.GuardrailParams

	// Synthetic dataset generation
	Products      int
	Months        int
	Seed          int64
	GenerateStart time.Time

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseEmojis  bool
	UseColors  bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	MetricsFile string
	LogLevel    string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Data             string  `mapstructure:"data"`
	Product          string  `mapstructure:"product"`
	BasePrice        string  `mapstructure:"base-price"`
	Cost             string  `mapstructure:"cost"`
	CostRatio        float64 `mapstructure:"cost-ratio"`
	GuardrailPasses  int     `mapstructure:"guardrail-passes"`
	BaselinePolicy   string  `mapstructure:"baseline-policy"`
	Precision        int     `mapstructure:"precision"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Width            int     `mapstructure:"width"`
	Emoji            string  `mapstructure:"emoji"`
	Color            string  `mapstructure:"color"`
	HistoryBackend   string  `mapstructure:"history-backend"`
	HistoryDBConnect string  `mapstructure:"history-db-connect"`
	MetricsFile      string  `mapstructure:"metrics-file"`
	LogLevel         string  `mapstructure:"log-level"`

	// --- Fields from shockCmd.Flags() ---
	ShockType string  `mapstructure:"type"`
	Intensity float64 `mapstructure:"intensity"`

	// --- Fields from guardrailsCmd.Flags() ---
	Price           float64 `mapstructure:"price"`
	MarginThreshold float64 `mapstructure:"margin-threshold"`
	Floor           string  `mapstructure:"floor"`
	Ceiling         string  `mapstructure:"ceiling"`
	CompetitorPrice string  `mapstructure:"competitor-price"`
	MinGap          float64 `mapstructure:"min-gap"`

	// --- Fields from generateCmd.Flags() ---
	Products int    `mapstructure:"products"`
	Months   int    `mapstructure:"months"`
	Seed     int64  `mapstructure:"seed"`
	Start    string `mapstructure:"start"`

	// --- Rule overrides from config file ---
	Rules RulesRawInput `mapstructure:"rules"`
}

// Settings returns the pipeline settings carried by the config.
func (c *Config) Settings() (schema.RuleSet, schema.BaselinePolicy, int) {
	return c.Rules, c.Baseline, c.GuardrailPasses
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.BasePrice = cloneFloat(c.BasePrice)
	clone.Cost = cloneFloat(c.Cost)
	clone.Guardrail.Floor = cloneFloat(c.Guardrail.Floor)
	clone.Guardrail.Ceiling = cloneFloat(c.Guardrail.Ceiling)
	clone.Guardrail.CompetitorPrice = cloneFloat(c.Guardrail.CompetitorPrice)
	clone.Rules.Scenario.Catalog = slices.Clone(c.Rules.Scenario.Catalog)
	return &clone
}

// CloneWithProduct creates a copy of the Config restricted to one product.
func (c *Config) CloneWithProduct(productID string) *Config {
	clone := c.Clone()
	clone.ProductFilter = productID
	return clone
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processPricing(cfg, input); err != nil {
		return err
	}
	if err := processRules(cfg, input); err != nil {
		return err
	}
	if err := processGuardrailInputs(cfg, input); err != nil {
		return err
	}
	if err := processGenerateInputs(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates presentation, history and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.DataPath = strings.TrimSpace(input.Data)
	if cfg.DataPath == "" {
		cfg.DataPath = DefaultDataPath
	}
	cfg.ProductFilter = strings.TrimSpace(input.Product)
	cfg.OutputFile = input.OutputFile
	cfg.MetricsFile = input.MetricsFile
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet, markdown", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	// --- 2. History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// --- 3. Log Level ---
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	return nil
}

// processPricing handles the base price, cost and policy inputs.
func processPricing(cfg *Config, input *ConfigRawInput) error {
	basePrice, err := ParseOptionalFloat(input.BasePrice)
	if err != nil {
		return fmt.Errorf("%w: invalid --base-price: %v", schema.ErrConfiguration, err)
	}
	if basePrice != nil && *basePrice <= 0 {
		return fmt.Errorf("%w: --base-price must be positive (received %v)", schema.ErrConfiguration, *basePrice)
	}
	cfg.BasePrice = basePrice

	cost, err := ParseOptionalFloat(input.Cost)
	if err != nil {
		return fmt.Errorf("%w: invalid --cost: %v", schema.ErrConfiguration, err)
	}
	cfg.Cost = cost

	if !isFinite(input.CostRatio) || input.CostRatio < 0 {
		return fmt.Errorf("%w: --cost-ratio must be a non-negative number (received %v)", schema.ErrConfiguration, input.CostRatio)
	}
	cfg.CostRatio = input.CostRatio

	if input.GuardrailPasses < 1 || input.GuardrailPasses > MaxGuardrailPasses {
		return fmt.Errorf("%w: --guardrail-passes must be between 1 and %d (received %d)", schema.ErrConfiguration, MaxGuardrailPasses, input.GuardrailPasses)
	}
	cfg.GuardrailPasses = input.GuardrailPasses

	cfg.Baseline = schema.BaselinePolicy(strings.ToLower(input.BaselinePolicy))
	if cfg.Baseline == "" {
		cfg.Baseline = schema.MajorityBaseline
	}
	if _, ok := schema.ValidBaselinePolicies[cfg.Baseline]; !ok {
		return fmt.Errorf("%w: invalid baseline policy '%s'. must be majority, first", schema.ErrConfiguration, input.BaselinePolicy)
	}

	cfg.ShockType = NormalizeShockType(input.ShockType)
	if !isFinite(input.Intensity) {
		return fmt.Errorf("%w: --intensity must be finite", schema.ErrConfiguration)
	}
	cfg.Intensity = input.Intensity
	return nil
}

// NormalizeShockType trims and lowercases a user-supplied shock type.
func NormalizeShockType(s string) schema.ShockType {
	return schema.ShockType(strings.ToLower(strings.TrimSpace(s)))
}

// processRules applies config file overrides to the reference rule set.
func processRules(cfg *Config, input *ConfigRawInput) error {
	rules := schema.DefaultRuleSet()
	raw := input.Rules

	overrides := []struct {
		name   string
		source *float64
		target *float64
	}{
		{"quality_weight", raw.QualityWeight, &rules.VPS.Quality},
		{"interest_weight", raw.InterestWeight, &rules.VPS.Interest},
		{"brand_weight", raw.BrandWeight, &rules.VPS.Brand},
		{"discount_weight", raw.DiscountWeight, &rules.VPS.Discount},
		{"low_quantile", raw.LowQuantile, &rules.LowQuantile},
		{"high_quantile", raw.HighQuantile, &rules.HighQuantile},
		{"competitor_band", raw.CompetitorBand, &rules.CompetitorBand},
		{"margin_threshold", raw.MarginThreshold, &rules.Scenario.MarginThreshold},
		{"floor_ratio", raw.FloorRatio, &rules.Scenario.FloorRatio},
		{"ceiling_ratio", raw.CeilingRatio, &rules.Scenario.CeilingRatio},
		{"min_competitor_gap", raw.MinCompetitorGap, &rules.Scenario.MinCompetitorGap},
	}
	for _, o := range overrides {
		if o.source == nil {
			continue
		}
		if !isFinite(*o.source) {
			return fmt.Errorf("%w: rule %s must be finite", schema.ErrConfiguration, o.name)
		}
		*o.target = *o.source
	}

	for _, o := range overrides[:4] {
		if *o.target < 0 {
			return fmt.Errorf("%w: rule %s cannot be negative (received %.3f)", schema.ErrConfiguration, o.name, *o.target)
		}
	}
	if rules.LowQuantile < 0 || rules.HighQuantile > 1 || rules.LowQuantile > rules.HighQuantile {
		return fmt.Errorf("%w: quantiles must satisfy 0 <= low <= high <= 1 (received %.2f, %.2f)", schema.ErrConfiguration, rules.LowQuantile, rules.HighQuantile)
	}
	if rules.CompetitorBand < 0 {
		return fmt.Errorf("%w: competitor_band cannot be negative", schema.ErrConfiguration)
	}
	if rules.Scenario.MarginThreshold >= 1 {
		return fmt.Errorf("%w: margin_threshold must be below 1 (received %.2f)", schema.ErrConfiguration, rules.Scenario.MarginThreshold)
	}
	if rules.Scenario.FloorRatio > rules.Scenario.CeilingRatio {
		return fmt.Errorf("%w: floor_ratio cannot exceed ceiling_ratio", schema.ErrConfiguration)
	}

	cfg.Rules = rules
	return nil
}

// processGuardrailInputs handles the standalone guardrail evaluation flags.
func processGuardrailInputs(cfg *Config, input *ConfigRawInput) error {
	if !isFinite(input.Price) || !isFinite(input.MinGap) || !isFinite(input.MarginThreshold) {
		return fmt.Errorf("%w: --price, --min-gap and --margin-threshold must be finite", schema.ErrConfiguration)
	}
	if input.MarginThreshold >= 1 {
		return fmt.Errorf("%w: --margin-threshold must be below 1 (received %v)", schema.ErrConfiguration, input.MarginThreshold)
	}
	cfg.CandidatePrice = input.Price

	params := schema.GuardrailParams{
		MarginThreshold:  input.MarginThreshold,
		MinCompetitorGap: input.MinGap,
	}
	if cfg.Cost != nil {
		params.Cost = *cfg.Cost
	}
	var err error
	if params.Floor, err = ParseOptionalFloat(input.Floor); err != nil {
		return fmt.Errorf("%w: invalid --floor: %v", schema.ErrConfiguration, err)
	}
	if params.Ceiling, err = ParseOptionalFloat(input.Ceiling); err != nil {
		return fmt.Errorf("%w: invalid --ceiling: %v", schema.ErrConfiguration, err)
	}
	if params.CompetitorPrice, err = ParseOptionalFloat(input.CompetitorPrice); err != nil {
		return fmt.Errorf("%w: invalid --competitor-price: %v", schema.ErrConfiguration, err)
	}
	cfg.Guardrail = params
	return nil
}

// processGenerateInputs handles the synthetic dataset parameters.
// Counts are checked by the generator itself at the point of use.
func processGenerateInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Products = input.Products
	cfg.Months = input.Months
	cfg.Seed = input.Seed

	cfg.GenerateStart = DefaultGenerateStart
	if s := strings.TrimSpace(input.Start); s != "" {
		t, err := time.Parse(DateFormat, s)
		if err != nil {
			return fmt.Errorf("%w: invalid --start date '%s'. Expected YYYY-MM-DD", schema.ErrConfiguration, s)
		}
		cfg.GenerateStart = t
	}
	return nil
}
