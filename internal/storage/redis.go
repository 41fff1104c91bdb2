package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"matchenv/internal/model"
)

// RedisStore shares exposure visibility across distributed rollout workers:
// every worker journals to the same keys, so an operator can watch the
// fleet's per-configuration balance from one place.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore builds a store from a redis connection URL. The connection
// is not dialed until Init.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	return &RedisStore{rdb: redis.NewClient(opts)}, nil
}

// NewRedisStoreFromClient wraps an existing client, for tests.
func NewRedisStoreFromClient(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Init(ctx context.Context) error {
	if s.rdb == nil {
		return errors.New("redis client is required")
	}
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveEpisode(ctx context.Context, record model.EpisodeRecord) error {
	payload, err := EncodeEpisode(record)
	if err != nil {
		return err
	}
	return s.rdb.RPush(ctx, episodesKey(record.RunID), payload).Err()
}

func (s *RedisStore) GetEpisodes(ctx context.Context, runID string) ([]model.EpisodeRecord, bool, error) {
	payloads, err := s.rdb.LRange(ctx, episodesKey(runID), 0, -1).Result()
	if err != nil {
		return nil, false, err
	}
	if len(payloads) == 0 {
		return nil, false, nil
	}
	records := make([]model.EpisodeRecord, 0, len(payloads))
	for _, payload := range payloads {
		record, err := DecodeEpisode([]byte(payload))
		if err != nil {
			return nil, false, fmt.Errorf("decode episode for run %s: %w", runID, err)
		}
		records = append(records, record)
	}
	return records, true, nil
}

func (s *RedisStore) SaveExposure(ctx context.Context, runID string, buckets []model.ExposureBucket) error {
	payload, err := EncodeExposure(buckets)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, exposureKey(runID), payload, 0).Err()
}

func (s *RedisStore) GetExposure(ctx context.Context, runID string) ([]model.ExposureBucket, bool, error) {
	payload, err := s.rdb.Get(ctx, exposureKey(runID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	buckets, err := DecodeExposure(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode exposure %s: %w", runID, err)
	}
	return buckets, true, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func episodesKey(runID string) string {
	return "matchenv:episodes:" + runID
}

func exposureKey(runID string) string {
	return "matchenv:exposure:" + runID
}
