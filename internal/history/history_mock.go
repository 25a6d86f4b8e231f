package history

import (
	"time"

	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, totalProducts int) error {
	args := m.Called(runID, endTime, totalProducts)
	return args.Error(0)
}

// RecordScenarioResults implements the HistoryStore interface.
func (m *MockHistoryStore) RecordScenarioResults(runID int64, analysis schema.ProductAnalysis, analysisTime time.Time) error {
	args := m.Called(runID, analysis, analysisTime)
	return args.Error(0)
}

// RecordSegmentCells implements the HistoryStore interface.
func (m *MockHistoryStore) RecordSegmentCells(runID int64, productID string, matrix schema.SegmentMatrix, analysisTime time.Time) error {
	args := m.Called(runID, productID, matrix, analysisTime)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunRecord)
	return records, args.Error(1)
}

// GetAllScenarioResults implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllScenarioResults() ([]schema.ScenarioResultRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.ScenarioResultRecord)
	return records, args.Error(1)
}

// GetAllSegmentCells implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllSegmentCells() ([]schema.SegmentCellRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.SegmentCellRecord)
	return records, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
