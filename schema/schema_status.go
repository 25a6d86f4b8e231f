package schema

import "time"

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend       string           `json:"backend" yaml:"backend"`
	Connected     bool             `json:"connected" yaml:"connected"`
	TotalRuns     int              `json:"total_runs" yaml:"total_runs"`
	LastRunID     int64            `json:"last_run_id" yaml:"last_run_id"`
	LastRunUUID   string           `json:"last_run_uuid" yaml:"last_run_uuid"`
	LastRunTime   time.Time        `json:"last_run_time" yaml:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time" yaml:"oldest_run_time"`
	TotalProducts int              `json:"total_products" yaml:"total_products"`
	TableSizes    map[string]int64 `json:"table_sizes" yaml:"table_sizes"`
}
