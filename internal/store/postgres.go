package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/airsense-labs/sensorfeat/internal/db"
	"github.com/airsense-labs/sensorfeat/internal/model"
)

// PostgresStore implements Store using pgxpool. Feature rows go in through
// the COPY protocol.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: func() {}}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	status       TEXT NOT NULL DEFAULT 'running',
	sensor_count INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS features (
	run_id    TEXT NOT NULL REFERENCES runs(id),
	sensor_id BIGINT NOT NULL,
	row       JSONB NOT NULL,
	PRIMARY KEY (run_id, sensor_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_features_run_id ON features(run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.closeFn()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.New().String(),
		Status:    model.RunStatusRunning,
		CreatedAt: time.Now().UTC(),
	}
	run.UpdatedAt = run.CreatedAt

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, status, sensor_count, created_at, updated_at) VALUES ($1, $2, 0, $3, $4)`,
		run.ID, string(run.Status), run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}
	return run, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, sensorCount int) error {
	return s.setRunStatus(ctx, runID, model.RunStatusComplete, sensorCount)
}

func (s *PostgresStore) FailRun(ctx context.Context, runID string) error {
	return s.setRunStatus(ctx, runID, model.RunStatusFailed, 0)
}

func (s *PostgresStore) setRunStatus(ctx context.Context, runID string, status model.RunStatus, sensorCount int) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, sensor_count = $2, updated_at = $3 WHERE id = $4`,
		string(status), sensorCount, time.Now().UTC(), runID,
	)
	return eris.Wrapf(err, "postgres: update run %s", runID)
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, status, sensor_count, created_at, updated_at FROM runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var status string
		if err := rows.Scan(&r.ID, &status, &r.SensorCount, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		r.Status = model.RunStatus(status)
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func (s *PostgresStore) SaveFeatures(ctx context.Context, runID string, rows []model.FeatureRow) error {
	copyRows := make([][]any, 0, len(rows))
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal feature row %d", row.SensorID)
		}
		copyRows = append(copyRows, []any{runID, row.SensorID, string(data)})
	}

	_, err := db.CopyFrom(ctx, s.pool, "features", []string{"run_id", "sensor_id", "row"}, copyRows)
	return err
}

func (s *PostgresStore) GetFeatures(ctx context.Context, runID string) ([]model.FeatureRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT row FROM features WHERE run_id = $1 ORDER BY sensor_id ASC`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query features")
	}
	defer rows.Close()

	var out []model.FeatureRow
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan feature row")
		}
		var row model.FeatureRow
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal feature row")
		}
		out = append(out, row)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate features")
}
