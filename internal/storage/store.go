package storage

import (
	"context"

	"matchenv/internal/model"
)

// Store persists per-episode exposure records and run-level exposure
// rollups so long trainings can be inspected across process restarts. The
// live accounting table itself stays in memory; the store is a journal.
type Store interface {
	Init(ctx context.Context) error
	SaveEpisode(ctx context.Context, record model.EpisodeRecord) error
	GetEpisodes(ctx context.Context, runID string) ([]model.EpisodeRecord, bool, error)
	SaveExposure(ctx context.Context, runID string, buckets []model.ExposureBucket) error
	GetExposure(ctx context.Context, runID string) ([]model.ExposureBucket, bool, error)
}

// Resetter is an optional capability for stores that can drop all data.
type Resetter interface {
	Reset(ctx context.Context) error
}
