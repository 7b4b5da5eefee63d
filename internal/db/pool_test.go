package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"features"}, []string{"run_id", "sensor_id"}).
		WillReturnResult(2)

	n, err := CopyFrom(context.Background(), mock, "features", []string{"run_id", "sensor_id"}, [][]any{
		{"run-1", int64(1)},
		{"run-1", int64(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_EmptyRowsSkipsCopy(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	n, err := CopyFrom(context.Background(), mock, "features", []string{"run_id"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_WrapsError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"features"}, []string{"run_id"}).
		WillReturnError(errors.New("connection reset"))

	_, err = CopyFrom(context.Background(), mock, "features", []string{"run_id"}, [][]any{{"run-1"}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO features")
}
