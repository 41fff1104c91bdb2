package storage

import (
	"context"
	"sync"

	"matchenv/internal/model"
)

type MemoryStore struct {
	mu       sync.RWMutex
	episodes map[string][]model.EpisodeRecord
	exposure map[string][]model.ExposureBucket
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.episodes = make(map[string][]model.EpisodeRecord)
	s.exposure = make(map[string][]model.ExposureBucket)
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	return s.Init(ctx)
}

func (s *MemoryStore) SaveEpisode(_ context.Context, record model.EpisodeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.SchemaVersion = CurrentSchemaVersion
	record.CodecVersion = CurrentCodecVersion
	s.episodes[record.RunID] = append(s.episodes[record.RunID], record)
	return nil
}

func (s *MemoryStore) GetEpisodes(_ context.Context, runID string) ([]model.EpisodeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.episodes[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.EpisodeRecord, len(records))
	copy(copied, records)
	return copied, true, nil
}

func (s *MemoryStore) SaveExposure(_ context.Context, runID string, buckets []model.ExposureBucket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.ExposureBucket, len(buckets))
	copy(copied, buckets)
	s.exposure[runID] = copied
	return nil
}

func (s *MemoryStore) GetExposure(_ context.Context, runID string) ([]model.ExposureBucket, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets, ok := s.exposure[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.ExposureBucket, len(buckets))
	copy(copied, buckets)
	return copied, true, nil
}
