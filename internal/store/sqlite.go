package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/airsense-labs/sensorfeat/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	status       TEXT NOT NULL DEFAULT 'running',
	sensor_count INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS features (
	run_id    TEXT NOT NULL REFERENCES runs(id),
	sensor_id INTEGER NOT NULL,
	row       TEXT NOT NULL,
	PRIMARY KEY (run_id, sensor_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_features_run_id ON features(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.New().String(),
		Status:    model.RunStatusRunning,
		CreatedAt: time.Now().UTC(),
	}
	run.UpdatedAt = run.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, sensor_count, created_at, updated_at) VALUES (?, ?, 0, ?, ?)`,
		run.ID, string(run.Status), run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return run, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, sensorCount int) error {
	return s.setRunStatus(ctx, runID, model.RunStatusComplete, sensorCount)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string) error {
	return s.setRunStatus(ctx, runID, model.RunStatusFailed, 0)
}

func (s *SQLiteStore) setRunStatus(ctx context.Context, runID string, status model.RunStatus, sensorCount int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, sensor_count = ?, updated_at = ? WHERE id = ?`,
		string(status), sensorCount, time.Now().UTC(), runID,
	)
	return eris.Wrapf(err, "sqlite: update run %s", runID)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, sensor_count, created_at, updated_at FROM runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var status string
		if err := rows.Scan(&r.ID, &status, &r.SensorCount, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		r.Status = model.RunStatus(status)
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func (s *SQLiteStore) SaveFeatures(ctx context.Context, runID string, rows []model.FeatureRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin features tx")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO features (run_id, sensor_id, row) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare features insert")
	}
	defer stmt.Close()

	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal feature row %d", row.SensorID)
		}
		if _, err := stmt.ExecContext(ctx, runID, row.SensorID, string(data)); err != nil {
			return eris.Wrapf(err, "sqlite: insert feature row %d", row.SensorID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit features")
}

func (s *SQLiteStore) GetFeatures(ctx context.Context, runID string) ([]model.FeatureRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row FROM features WHERE run_id = ? ORDER BY sensor_id ASC`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query features")
	}
	defer rows.Close()

	var out []model.FeatureRow
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan feature row")
		}
		var row model.FeatureRow
		if err := json.Unmarshal([]byte(data), &row); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal feature row")
		}
		out = append(out, row)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate features")
}
