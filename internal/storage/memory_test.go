package storage

import (
	"context"
	"testing"
	"time"

	"matchenv/internal/model"
)

func TestMemoryStoreEpisodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if _, ok, err := store.GetEpisodes(ctx, "run-1"); err != nil || ok {
		t.Fatalf("expected no episodes yet: %v %v", ok, err)
	}

	record := model.EpisodeRecord{
		RunID:      "run-1",
		EpisodeID:  "ep-1",
		Opponents:  true,
		TeamSize:   2,
		AgentSteps: 400,
		StartedAt:  time.Now().Add(-time.Minute),
		EndedAt:    time.Now(),
	}
	if err := store.SaveEpisode(ctx, record); err != nil {
		t.Fatalf("save: %v", err)
	}

	records, ok, err := store.GetEpisodes(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("get: %v %v", ok, err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].SchemaVersion != CurrentSchemaVersion {
		t.Fatalf("schema version not stamped: %d", records[0].SchemaVersion)
	}
	if records[0].AgentSteps != 400 || !records[0].Opponents {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestMemoryStoreExposureRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	buckets := []model.ExposureBucket{
		{Opponents: false, TeamSize: 1, AgentSteps: 50},
		{Opponents: false, TeamSize: 2, AgentSteps: 200},
	}
	if err := store.SaveExposure(ctx, "run-1", buckets); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.GetExposure(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("get: %v %v", ok, err)
	}
	if len(got) != 2 || got[1].AgentSteps != 200 {
		t.Fatalf("unexpected exposure: %v", got)
	}

	// the stored slice is isolated from the caller's
	buckets[0].AgentSteps = 999
	again, _, _ := store.GetExposure(ctx, "run-1")
	if again[0].AgentSteps == 999 {
		t.Fatal("store must copy bucket slices")
	}
}

func TestMemoryStoreReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := store.SaveEpisode(ctx, model.EpisodeRecord{RunID: "run-1", EpisodeID: "ep-1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, ok, _ := store.GetEpisodes(ctx, "run-1"); ok {
		t.Fatal("reset must drop all records")
	}
}

func TestNewStoreFactory(t *testing.T) {
	if _, err := NewStore("memory", ""); err != nil {
		t.Fatalf("memory store: %v", err)
	}
	if _, err := NewStore("", ""); err != nil {
		t.Fatalf("default store: %v", err)
	}
	if _, err := NewStore("bogus", ""); err == nil {
		t.Fatal("expected unsupported backend error")
	}
}

func TestEpisodeCodecRoundTrip(t *testing.T) {
	record := model.EpisodeRecord{
		RunID:      "run-1",
		EpisodeID:  "ep-1",
		TeamSize:   3,
		AgentSteps: 27,
	}
	payload, err := EncodeEpisode(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeEpisode(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.TeamSize != 3 || decoded.AgentSteps != 27 {
		t.Fatalf("unexpected decode: %+v", decoded)
	}
	if _, err := DecodeEpisode([]byte(`{"schema_version": 99}`)); err == nil {
		t.Fatal("expected schema version rejection")
	}
}
