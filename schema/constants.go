package schema

// Custom string types for type safety.
type (
	// Category is the product category of an observation.
	Category string

	// Segment is a VPS-quantile customer value tier.
	Segment string

	// CompetitorAction is the discretized competitor price relative to effective price.
	CompetitorAction string

	// ScenarioName names one entry of the closed scenario catalog.
	ScenarioName string

	// ShockType names a demand shock.
	ShockType string

	// GuardrailReason is the reason code reported by the guardrails.
	GuardrailReason string

	// BaselinePolicy picks the elasticity baseline for cells that mix categories.
	BaselinePolicy string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string
)

// All product categories supported.
const (
	StandardCategory Category = "Standard"
	PremiumCategory  Category = "Premium"
)

// All value segments, lowest first.
const (
	BargainSegment Segment = "Bargain"
	LoyalSegment   Segment = "Loyal"
	PremiumSegment Segment = "Premium"
)

// All competitor actions.
const (
	UndercutAction CompetitorAction = "undercut"
	NeutralAction  CompetitorAction = "neutral"
	PremiumAction  CompetitorAction = "premium"
)

// The closed scenario catalog.
const (
	ExpectedScenario           ScenarioName = "Expected"
	BestScenario               ScenarioName = "Best"
	WorstScenario              ScenarioName = "Worst"
	CompetitorUndercutScenario ScenarioName = "Competitor_Undercut"
	FestivalSurgeScenario      ScenarioName = "Festival_Surge"
)

// Known shock types. Any other label is a no-op shock.
const (
	FestivalShock        ShockType = "festival"
	CompetitorFlashShock ShockType = "competitor_flash"
	SupplyShortageShock  ShockType = "supply_shortage"
	ViralShock           ShockType = "viral"
)

// Guardrail reason codes.
const (
	ReasonOK           GuardrailReason = "ok"
	ReasonBelowFloor   GuardrailReason = "price < floor"
	ReasonAboveCeiling GuardrailReason = "price > ceiling"
	ReasonMargin       GuardrailReason = "margin below threshold"
	ReasonCompetitor   GuardrailReason = "competitor gap"
)

// Baseline policies for mixed-category segmentation cells.
const (
	MajorityBaseline BaselinePolicy = "majority" // default
	FirstRowBaseline BaselinePolicy = "first"
)

// All output modes supported.
const (
	TextOut     OutputMode = "text" // default
	CSVOut      OutputMode = "csv"
	JSONOut     OutputMode = "json"
	ParquetOut  OutputMode = "parquet"
	MarkdownOut OutputMode = "markdown"
	YAMLOut     OutputMode = "yaml"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllSegments lists the segments in canonical order.
var AllSegments = []Segment{BargainSegment, LoyalSegment, PremiumSegment}

// AllCompetitorActions lists the competitor actions in canonical order.
var AllCompetitorActions = []CompetitorAction{UndercutAction, NeutralAction, PremiumAction}

// AllScenarios lists the scenario catalog in canonical order.
var AllScenarios = []ScenarioName{
	ExpectedScenario,
	BestScenario,
	WorstScenario,
	CompetitorUndercutScenario,
	FestivalSurgeScenario,
}

// AllShockTypes lists the known shock types.
var AllShockTypes = []ShockType{FestivalShock, CompetitorFlashShock, SupplyShortageShock, ViralShock}

// ValidCategories lists all valid product categories.
var ValidCategories = map[Category]struct{}{
	StandardCategory: {},
	PremiumCategory:  {},
}

// ValidBaselinePolicies lists all valid baseline policies.
var ValidBaselinePolicies = map[BaselinePolicy]struct{}{
	MajorityBaseline: {},
	FirstRowBaseline: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:     {},
	CSVOut:      {},
	JSONOut:     {},
	ParquetOut:  {},
	MarkdownOut: {},
	YAMLOut:     {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
