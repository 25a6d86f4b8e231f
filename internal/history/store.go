package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // registers "mysql"
	"github.com/google/uuid"
	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"             // registers "sqlite"
)

// Table names for run history.
const (
	runsTable            = "fairprice_runs"
	scenarioResultsTable = "fairprice_scenario_results"
	segmentCellsTable    = "fairprice_segment_cells"
)

// historyTables lists every history table, children last.
var historyTables = []string{runsTable, scenarioResultsTable, segmentCellsTable}

// StoreImpl implements the HistoryStore interface.
type StoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &StoreImpl{} // Compile-time check

// driverName maps a backend to its database/sql driver.
func driverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// openDB opens and pings a database for the backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driver, err := driverName(backend)
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Add parseTime=true to the DSN."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Check that the directory is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, nil
}

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &StoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &StoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables applies the initial migration statements directly.
// Every statement is idempotent so a later migrate run is still safe.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	content, err := migrationsFS.ReadFile(fmt.Sprintf("migrations/%s/000001_init.up.sql", backend))
	if err != nil {
		return fmt.Errorf("failed to read initial migration: %w", err)
	}
	for _, stmt := range strings.Split(string(content), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute %q: %w", strings.TrimSpace(stmt), err)
		}
	}
	return nil
}

// quoteTableName quotes a table identifier for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func rebind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *StoreImpl) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// BeginRun creates a new run and returns its unique ID.
func (s *StoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if s.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES (?, ?, ?)`, quoteTableName(runsTable, s.backend))
	args := []any{uuid.NewString(), formatTime(startTime, s.backend), string(configJSON)}

	var runID int64
	switch s.backend {
	case schema.PostgreSQLBackend:
		err = s.db.QueryRow(rebind(query, s.backend)+" RETURNING run_id", args...).Scan(&runID)
	default: // SQLite and MySQL
		var result sql.Result
		result, err = s.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (s *StoreImpl) EndRun(runID int64, endTime time.Time, totalProducts int) error {
	if s.disabled() {
		return nil
	}

	table := quoteTableName(runsTable, s.backend)
	row := s.db.QueryRow(rebind(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, table), s.backend), runID)
	startTime, err := s.scanTime(row.Scan)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	query := fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_products = ? WHERE run_id = ?`, table)
	if _, err := s.db.Exec(rebind(query, s.backend), formatTime(endTime, s.backend), durationMs, totalProducts, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordScenarioResults stores the scenario results of one product in a single transaction.
func (s *StoreImpl) RecordScenarioResults(runID int64, analysis schema.ProductAnalysis, analysisTime time.Time) error {
	if s.disabled() {
		return nil
	}

	query := rebind(fmt.Sprintf(`
		INSERT INTO %s (run_id, product_id, scenario, analysis_time, base_price,
		                candidate_price, reason, predicted_demand, predicted_revenue)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, quoteTableName(scenarioResultsTable, s.backend)), s.backend)

	return s.inTx(func(tx *sql.Tx) error {
		for _, r := range analysis.Scenarios.Ordered() {
			if _, err := tx.Exec(query,
				runID, analysis.ProductID, string(r.Scenario), formatTime(analysisTime, s.backend), analysis.BasePrice,
				r.CandidatePrice, string(r.Reason), r.PredictedDemand, r.PredictedRevenue,
			); err != nil {
				return fmt.Errorf("failed to insert scenario %s for %s: %w", r.Scenario, analysis.ProductID, err)
			}
		}
		return nil
	})
}

// RecordSegmentCells stores the segmentation matrix of one product in a single transaction.
func (s *StoreImpl) RecordSegmentCells(runID int64, productID string, matrix schema.SegmentMatrix, analysisTime time.Time) error {
	if s.disabled() {
		return nil
	}

	query := rebind(fmt.Sprintf(`
		INSERT INTO %s (run_id, product_id, segment, competitor_action, analysis_time, elasticity, cell_rows)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, quoteTableName(segmentCellsTable, s.backend)), s.backend)

	return s.inTx(func(tx *sql.Tx) error {
		for _, c := range matrix {
			if _, err := tx.Exec(query,
				runID, productID, string(c.Segment), string(c.CompetitorAction),
				formatTime(analysisTime, s.backend), c.Elasticity, c.Rows,
			); err != nil {
				return fmt.Errorf("failed to insert cell %s/%s for %s: %w", c.Segment, c.CompetitorAction, productID, err)
			}
		}
		return nil
	})
}

func (s *StoreImpl) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the underlying connection.
func (s *StoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (s *StoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	runs := quoteTableName(runsTable, s.backend)
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := s.db.QueryRow(fmt.Sprintf("SELECT run_id, run_uuid, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs))
		lastRunTime, err := s.scanTime(func(dest ...any) error {
			return row.Scan(append([]any{&status.LastRunID, &status.LastRunUUID}, dest...)...)
		})
		if err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = lastRunTime

		row = s.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs))
		oldestRunTime, err := s.scanTime(row.Scan)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		if err := s.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_products), 0) FROM %s", runs)).Scan(&status.TotalProducts); err != nil {
			return status, fmt.Errorf("failed to get total products analyzed: %w", err)
		}
	}

	for _, table := range historyTables {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllRuns retrieves all runs from the store.
func (s *StoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, start_time, end_time, run_duration_ms, total_products, config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var endTime nullableTime
		start, err := s.scanTime(func(startDest ...any) error {
			return rows.Scan(append(append([]any{&record.RunID, &record.RunUUID}, startDest...),
				s.timeDest(&endTime), &record.RunDurationMs, &record.TotalProducts, &record.ConfigParams)...)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.StartTime = start
		if record.EndTime, err = endTime.value(); err != nil {
			return nil, fmt.Errorf("failed to parse end_time: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllScenarioResults retrieves all scenario results from the store.
func (s *StoreImpl) GetAllScenarioResults() ([]schema.ScenarioResultRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, product_id, scenario, analysis_time, base_price,
		candidate_price, reason, predicted_demand, predicted_revenue
		FROM %s ORDER BY run_id, product_id, scenario`, quoteTableName(scenarioResultsTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenario results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ScenarioResultRecord
	for rows.Next() {
		var r schema.ScenarioResultRecord
		analysisTime, err := s.scanTime(func(timeDest ...any) error {
			return rows.Scan(append(append([]any{&r.RunID, &r.ProductID, &r.Scenario}, timeDest...),
				&r.BasePrice, &r.CandidatePrice, &r.Reason, &r.PredictedDemand, &r.PredictedRevenue)...)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario result: %w", err)
		}
		r.AnalysisTime = analysisTime
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scenario results: %w", err)
	}
	return results, nil
}

// GetAllSegmentCells retrieves all segmentation cells from the store.
func (s *StoreImpl) GetAllSegmentCells() ([]schema.SegmentCellRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, product_id, segment, competitor_action, analysis_time, elasticity, cell_rows
		FROM %s ORDER BY run_id, product_id, segment, competitor_action`, quoteTableName(segmentCellsTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query segment cells: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SegmentCellRecord
	for rows.Next() {
		var c schema.SegmentCellRecord
		analysisTime, err := s.scanTime(func(timeDest ...any) error {
			return rows.Scan(append(append([]any{&c.RunID, &c.ProductID, &c.Segment, &c.CompetitorAction}, timeDest...),
				&c.Elasticity, &c.CellRows)...)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan segment cell: %w", err)
		}
		c.AnalysisTime = analysisTime
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating segment cells: %w", err)
	}
	return results, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// scanTime scans one time column through scan, handling the SQLite text encoding.
func (s *StoreImpl) scanTime(scan func(dest ...any) error) (time.Time, error) {
	if s.backend != schema.SQLiteBackend {
		var t time.Time
		if err := scan(&t); err != nil {
			return time.Time{}, err
		}
		return t.UTC(), nil
	}
	var text string
	if err := scan(&text); err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, text)
}

// nullableTime receives a nullable time column from any backend.
type nullableTime struct {
	text *string
	time *time.Time
}

func (s *StoreImpl) timeDest(nt *nullableTime) any {
	if s.backend == schema.SQLiteBackend {
		return &nt.text
	}
	return &nt.time
}

func (nt nullableTime) value() (*time.Time, error) {
	if nt.time != nil {
		t := nt.time.UTC()
		return &t, nil
	}
	if nt.text == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *nt.text)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
