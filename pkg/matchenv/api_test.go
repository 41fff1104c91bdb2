package matchenv

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func newClient(t *testing.T, raw Raw, opts Options) *Client {
	t.Helper()
	opts.Logger = zerolog.Nop()
	client, err := New(context.Background(), raw, opts)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClientSpaces(t *testing.T) {
	client := newClient(t, Raw{
		"team_size":       []any{1, 2},
		"spawn_opponents": true,
	}, Options{})

	obs, ok := client.ObservationSpace().(BoxSpace)
	if !ok {
		t.Fatalf("expected a box observation space, got %T", client.ObservationSpace())
	}
	if len(obs.Dims) != 1 || obs.Dims[0] <= 0 {
		t.Fatalf("unexpected observation dims: %v", obs.Dims)
	}
	act, ok := client.ActionSpace().(DiscreteSpace)
	if !ok {
		t.Fatalf("expected a discrete action space, got %T", client.ActionSpace())
	}
	if act.N != 8 || act.Options != 3 {
		t.Fatalf("unexpected action space: %+v", act)
	}
}

func TestClientFirstResetPicksRichestConfiguration(t *testing.T) {
	client := newClient(t, Raw{
		"team_size":       []any{1, 2, 3},
		"spawn_opponents": []any{false, true},
	}, Options{})

	reset, err := client.Reset(context.Background(), nil)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	opponents, size := client.ActiveConfiguration()
	if !opponents || size != 3 {
		t.Fatalf("first episode must be the richest configuration, got opponents=%v size=%d", opponents, size)
	}
	if len(reset.Obs) != 6 {
		t.Fatalf("3v3 must produce 6 observation rows, got %d", len(reset.Obs))
	}
}

func TestClientRolloutBalancesExposure(t *testing.T) {
	client := newClient(t, Raw{
		"team_size":           []any{1, 2},
		"spawn_opponents":     []any{false, true},
		"terminal_conditions": "timeout",
	}, Options{})

	summary, err := client.Rollout(context.Background(), 12, 5, 7)
	if err != nil {
		t.Fatalf("rollout: %v", err)
	}
	if summary.Episodes != 12 {
		t.Fatalf("expected 12 episodes, got %d", summary.Episodes)
	}
	if summary.AgentSteps == 0 {
		t.Fatal("rollout must accumulate agent steps")
	}
	if len(summary.Exposure) != 4 {
		t.Fatalf("expected 4 exposure buckets, got %d", len(summary.Exposure))
	}
	for _, bucket := range summary.Exposure {
		if bucket.AgentSteps == 0 {
			t.Fatalf("bucket %+v starved under the balancing policy", bucket)
		}
	}
}

func TestClientJournalsEpisodes(t *testing.T) {
	ctx := context.Background()
	client := newClient(t, Raw{
		"team_size": []any{1, 2},
	}, Options{StoreKind: "memory", RunID: "run-journal"})

	summary, err := client.Rollout(ctx, 3, 4, 11)
	if err != nil {
		t.Fatalf("rollout: %v", err)
	}
	// Rollout's final episode is journaled on the next reset, not before.
	if _, err := client.Reset(ctx, nil); err != nil {
		t.Fatalf("reset: %v", err)
	}

	records, err := client.Episodes(ctx)
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	if len(records) != summary.Episodes {
		t.Fatalf("expected %d journaled episodes, got %d", summary.Episodes, len(records))
	}
	for _, record := range records {
		if record.RunID != "run-journal" {
			t.Fatalf("record carries run %q", record.RunID)
		}
		if record.AgentSteps == 0 {
			t.Fatalf("record %s has no steps", record.EpisodeID)
		}
	}
}

func TestClientEpisodesWithoutStore(t *testing.T) {
	client := newClient(t, Raw{}, Options{})
	if _, err := client.Episodes(context.Background()); err == nil {
		t.Fatal("expected an error when no store is configured")
	}
}

func TestClientRolloutRejectsBadEpisodeCount(t *testing.T) {
	client := newClient(t, Raw{}, Options{})
	if _, err := client.Rollout(context.Background(), 0, 10, 1); err == nil {
		t.Fatal("expected an error for a non-positive episode count")
	}
}
