package history

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/fairprice/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateHistory_NoneBackend(t *testing.T) {
	err := MigrateHistory(&bytes.Buffer{}, schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestMigrateHistory_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	var out bytes.Buffer

	require.NoError(t, MigrateHistory(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "to version 1")

	out.Reset()
	require.NoError(t, MigrateHistory(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "already at the latest version")

	require.NoError(t, MigrateHistory(&out, schema.SQLiteBackend, dbPath, 0))
	require.NoError(t, MigrateHistory(&out, schema.SQLiteBackend, dbPath, 1))

	// A store opened on a migrated file reuses the tables
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	_, err = store.BeginRun(time.Now(), nil)
	assert.NoError(t, err)
}

func TestMigrateHistory_AfterStoreCreatedTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.NoError(t, MigrateHistory(&bytes.Buffer{}, schema.SQLiteBackend, dbPath, -1))
}

func TestClearHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine
	assert.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	assert.Error(t, ClearHistory(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	assert.Error(t, ClearHistory("oracle", "", ""))
}

func TestPrintHistoryStatus(t *testing.T) {
	var out bytes.Buffer
	PrintHistoryStatus(&out, schema.HistoryStatus{Backend: "none"})
	assert.Equal(t, "History Backend: none\nConnected: false\n", out.String())

	out.Reset()
	PrintHistoryStatus(&out, schema.HistoryStatus{
		Backend:       "sqlite",
		Connected:     true,
		TotalRuns:     2,
		LastRunID:     2,
		LastRunUUID:   "abc",
		LastRunTime:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		OldestRunTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalProducts: 4,
		TableSizes:    map[string]int64{segmentCellsTable: 9, runsTable: 2},
	})
	text := out.String()
	assert.Contains(t, text, "Total Runs: 2")
	assert.Contains(t, text, "Last Run ID: 2 (abc)")
	assert.Contains(t, text, "Last Run: 2024-01-02 03:04:05")
	assert.Contains(t, text, "Total Products Analyzed: 4")
	assert.Less(t, bytes.Index(out.Bytes(), []byte(runsTable)), bytes.Index(out.Bytes(), []byte(segmentCellsTable)))
}

func TestExportHistory(t *testing.T) {
	store := newMemoryStore(t)
	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	analysis := sampleAnalysis()
	require.NoError(t, store.RecordScenarioResults(runID, analysis, time.Now()))
	require.NoError(t, store.RecordSegmentCells(runID, analysis.ProductID, analysis.Matrix, time.Now()))
	require.NoError(t, store.EndRun(runID, time.Now(), 1))

	base := filepath.Join(t.TempDir(), "export")
	var out bytes.Buffer
	require.NoError(t, ExportHistory(&out, store, base))

	for _, suffix := range []string{".runs.parquet", ".scenario_results.parquet", ".segment_cells.parquet"} {
		info, err := os.Stat(base + suffix)
		require.NoError(t, err, suffix)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Contains(t, out.String(), "Exported 2 scenario results")
}

func TestExportHistory_Errors(t *testing.T) {
	assert.Error(t, ExportHistory(&bytes.Buffer{}, newMemoryStore(t), ""))
	assert.Error(t, ExportHistory(&bytes.Buffer{}, nil, "out"))

	err := ExportHistory(&bytes.Buffer{}, newMemoryStore(t), filepath.Join(t.TempDir(), "x"))
	assert.ErrorContains(t, err, "no run history")

	mockStore := &MockHistoryStore{}
	mockStore.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("offline"))
	err = ExportHistory(&bytes.Buffer{}, mockStore, "out")
	assert.ErrorContains(t, err, "offline")
	mockStore.AssertExpectations(t)
}

func TestStoreManager(t *testing.T) {
	mgr := &StoreManager{}
	assert.Nil(t, mgr.GetHistoryStore())

	store := newMemoryStore(t)
	mgr.store = store
	assert.Equal(t, store, mgr.GetHistoryStore())

	mockMgr := &MockHistoryManager{}
	mockMgr.On("GetHistoryStore").Return(nil)
	assert.Nil(t, mockMgr.GetHistoryStore())
}
