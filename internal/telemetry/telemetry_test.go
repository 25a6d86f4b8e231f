package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/fairprice/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	okBefore := testutil.ToFloat64(RunsTotal.WithLabelValues("scenarios", "ok"))
	errBefore := testutil.ToFloat64(RunsTotal.WithLabelValues("scenarios", "error"))

	ObserveRun("scenarios", 20*time.Millisecond, nil)
	ObserveRun("scenarios", 5*time.Millisecond, errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(RunsTotal.WithLabelValues("scenarios", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(RunsTotal.WithLabelValues("scenarios", "error")))
}

func TestObserveAnalysis(t *testing.T) {
	e := -1.2
	analysis := schema.ProductAnalysis{
		ProductID: "P1",
		Matrix: schema.SegmentMatrix{
			{Segment: schema.BargainSegment, CompetitorAction: schema.UndercutAction, Elasticity: &e, Rows: 2},
			{Segment: schema.BargainSegment, CompetitorAction: schema.NeutralAction},
			{Segment: schema.BargainSegment, CompetitorAction: schema.PremiumAction},
		},
		Scenarios: schema.ScenarioSet{
			schema.ExpectedScenario: {Scenario: schema.ExpectedScenario, Reason: schema.ReasonOK},
			schema.WorstScenario:    {Scenario: schema.WorstScenario, Reason: schema.ReasonMargin},
		},
	}

	products := testutil.ToFloat64(ProductsAnalyzed)
	undefined := testutil.ToFloat64(UndefinedCells)
	ok := testutil.ToFloat64(GuardrailOutcomes.WithLabelValues("ok"))
	margin := testutil.ToFloat64(GuardrailOutcomes.WithLabelValues("margin below threshold"))

	ObserveAnalysis(analysis)

	assert.Equal(t, products+1, testutil.ToFloat64(ProductsAnalyzed))
	assert.Equal(t, undefined+2, testutil.ToFloat64(UndefinedCells))
	assert.Equal(t, ok+1, testutil.ToFloat64(GuardrailOutcomes.WithLabelValues("ok")))
	assert.Equal(t, margin+1, testutil.ToFloat64(GuardrailOutcomes.WithLabelValues("margin below threshold")))
}

func TestObserveRows(t *testing.T) {
	before := testutil.ToFloat64(RowsLoaded)
	ObserveRows(48)
	assert.Equal(t, before+48, testutil.ToFloat64(RowsLoaded))
}

func TestWriteTextfile(t *testing.T) {
	ObserveRun("matrix", time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "fairprice.prom")
	require.NoError(t, WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "fairprice_runs_total")
	assert.Contains(t, string(content), `command="matrix"`)
	assert.Contains(t, string(content), "fairprice_run_duration_seconds_bucket")
}

func TestWriteTextfile_EmptyPath(t *testing.T) {
	assert.NoError(t, WriteTextfile(""))
}

func TestRegistryGathers(t *testing.T) {
	count, err := testutil.GatherAndCount(Registry, "fairprice_products_analyzed_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
