package schema

import "time"

// RunRecord represents a row from the fairprice_runs table.
type RunRecord struct {
	RunID         int64
	RunUUID       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalProducts int32
	ConfigParams  *string
}

// ScenarioResultRecord represents a row from the fairprice_scenario_results table.
type ScenarioResultRecord struct {
	RunID            int64
	ProductID        string
	Scenario         string
	AnalysisTime     time.Time
	BasePrice        float64
	CandidatePrice   float64
	Reason           string
	PredictedDemand  int32
	PredictedRevenue float64
}

// SegmentCellRecord represents a row from the fairprice_segment_cells table.
type SegmentCellRecord struct {
	RunID            int64
	ProductID        string
	Segment          string
	CompetitorAction string
	AnalysisTime     time.Time
	Elasticity       *float64
	CellRows         int32
}
