package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airsense-labs/sensorfeat/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateRun(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(pgxmock.AnyArg(), "running", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteRun(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs("complete", 42, pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.CompleteRun(context.Background(), "run-1", 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FailRun(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs("failed", 0, pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.FailRun(context.Background(), "run-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveFeaturesUsesCopy(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sampleRows()
	mock.ExpectCopyFrom(pgx.Identifier{"features"}, []string{"run_id", "sensor_id", "row"}).
		WillReturnResult(int64(len(rows)))

	require.NoError(t, s.SaveFeatures(context.Background(), "run-1", rows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetFeatures(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT row FROM features").
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"row"}).
			AddRow([]byte(`{"sensor_id":1,"distances":[null,null,null,512.5]}`)).
			AddRow([]byte(`{"sensor_id":2}`)))

	got, err := s.GetFeatures(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].SensorID)
	require.NotNil(t, got[0].Distances[model.RoadPrimary])
	assert.Equal(t, 512.5, *got[0].Distances[model.RoadPrimary])
	assert.Nil(t, got[1].Distances[model.RoadPrimary])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns(t *testing.T) {
	s, mock := newMockStore(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, status, sensor_count, created_at, updated_at FROM runs").
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "status", "sensor_count", "created_at", "updated_at"}).
			AddRow("run-2", "complete", 42, now, now).
			AddRow("run-1", "failed", 0, now, now))

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	assert.Equal(t, model.RunStatusFailed, runs[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
