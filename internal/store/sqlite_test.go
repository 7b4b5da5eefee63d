package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airsense-labs/sensorfeat/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "features.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleRows() []model.FeatureRow {
	d := 512.5
	share := 0.7321
	var rows []model.FeatureRow
	rows = append(rows, model.FeatureRow{
		SensorID:  1,
		Distances: [model.NumRoadClasses]*float64{nil, nil, nil, &d},
		Shares:    [model.NumLandUseClasses]*float64{&share},
	})
	rows = append(rows, model.FeatureRow{SensorID: 2})
	return rows
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	require.NoError(t, s.CompleteRun(ctx, run.ID, 42))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	assert.Equal(t, 42, runs[0].SensorCount)
}

func TestSQLiteStore_FailRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx)
	require.NoError(t, err)
	require.NoError(t, s.FailRun(ctx, run.ID))

	runs, err := s.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
}

func TestSQLiteStore_FeatureRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx)
	require.NoError(t, err)

	want := sampleRows()
	require.NoError(t, s.SaveFeatures(ctx, run.ID, want))

	got, err := s.GetFeatures(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Absent values survive the round trip as absent, present ones intact.
	assert.Equal(t, int64(1), got[0].SensorID)
	require.NotNil(t, got[0].Distances[model.RoadPrimary])
	assert.Equal(t, 512.5, *got[0].Distances[model.RoadPrimary])
	assert.Nil(t, got[0].Distances[model.RoadResidential])
	require.NotNil(t, got[0].Shares[model.ClassResidential])
	assert.Equal(t, 0.7321, *got[0].Shares[model.ClassResidential])
	assert.Nil(t, got[0].Shares[model.ClassOthers])

	assert.Equal(t, int64(2), got[1].SensorID)
	for _, v := range got[1].Distances {
		assert.Nil(t, v)
	}
}

func TestSQLiteStore_GetFeaturesUnknownRun(t *testing.T) {
	s := newTestSQLite(t)

	got, err := s.GetFeatures(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStore_ListRunsLimit(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.CreateRun(ctx)
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
