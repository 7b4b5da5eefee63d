// Package store persists pipeline runs and their feature tables.
package store

import (
	"context"

	"github.com/airsense-labs/sensorfeat/internal/model"
)

// Store is the persistence interface for feature runs. Feature rows are
// stored un-coalesced (the raw variant); the zero-filled variant is derived
// on export from the same rows.
type Store interface {
	CreateRun(ctx context.Context) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, sensorCount int) error
	FailRun(ctx context.Context, runID string) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	SaveFeatures(ctx context.Context, runID string, rows []model.FeatureRow) error
	GetFeatures(ctx context.Context, runID string) ([]model.FeatureRow, error)

	Migrate(ctx context.Context) error
	Close() error
}
