// Package matchenv is the public entry point: construct an adaptive match
// environment from a declarative configuration and drive it through the
// step/reset contract.
package matchenv

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"matchenv/internal/config"
	"matchenv/internal/env"
	"matchenv/internal/model"
	"matchenv/internal/sim"
	"matchenv/internal/storage"
)

// Re-exported contract types.
type (
	Raw            = config.Raw
	StepResult     = env.StepResult
	ResetRequest   = env.ResetRequest
	ResetResult    = env.ResetResult
	Space          = model.Space
	BoxSpace       = model.BoxSpace
	DiscreteSpace  = model.DiscreteSpace
	EpisodeRecord  = model.EpisodeRecord
	ExposureBucket = model.ExposureBucket
)

// Options configures a Client.
type Options struct {
	// StoreKind selects the episode journal backend: "", "memory",
	// "sqlite", or "redis". Empty disables journaling entirely.
	StoreKind string
	// StoreDSN is the sqlite path or redis URL.
	StoreDSN string
	// RunID labels journaled records; generated when empty.
	RunID  string
	Logger zerolog.Logger
	// Make substitutes the engine constructor, mainly for tests.
	Make sim.MakeFunc
}

// Client owns one environment and its optional journal store.
type Client struct {
	env   *env.Env
	store storage.Store
}

// New builds the environment from a raw declarative configuration.
func New(ctx context.Context, raw Raw, opts Options) (*Client, error) {
	var store storage.Store
	if opts.StoreKind != "" {
		s, err := storage.NewStore(opts.StoreKind, opts.StoreDSN)
		if err != nil {
			return nil, err
		}
		if err := s.Init(ctx); err != nil {
			return nil, fmt.Errorf("init store: %w", err)
		}
		store = s
	}

	envOpts := []env.Option{env.WithLogger(opts.Logger)}
	if store != nil {
		envOpts = append(envOpts, env.WithStore(store))
	}
	if opts.RunID != "" {
		envOpts = append(envOpts, env.WithRunID(opts.RunID))
	}
	if opts.Make != nil {
		envOpts = append(envOpts, env.WithMakeFunc(opts.Make))
	}

	e, err := env.New(raw, envOpts...)
	if err != nil {
		if store != nil {
			_ = storage.CloseIfSupported(store)
		}
		return nil, err
	}
	return &Client{env: e, store: store}, nil
}

func (c *Client) Step(ctx context.Context, actions [][]float64) (StepResult, error) {
	return c.env.Step(ctx, actions)
}

func (c *Client) Reset(ctx context.Context, req *ResetRequest) (ResetResult, error) {
	return c.env.Reset(ctx, req)
}

func (c *Client) ObservationSpace() Space { return c.env.ObservationSpace() }

func (c *Client) ActionSpace() Space { return c.env.ActionSpace() }

func (c *Client) ActiveConfiguration() (opponents bool, teamSize int) {
	return c.env.ActiveConfiguration()
}

func (c *Client) Exposure() []ExposureBucket { return c.env.Exposure() }

func (c *Client) RunID() string { return c.env.RunID() }

// Episodes reads this run's journaled episode records.
func (c *Client) Episodes(ctx context.Context) ([]EpisodeRecord, error) {
	if c.store == nil {
		return nil, errors.New("no store configured")
	}
	records, _, err := c.store.GetEpisodes(ctx, c.env.RunID())
	return records, err
}

func (c *Client) Close() error {
	err := c.env.Close()
	if c.store != nil {
		if storeErr := storage.CloseIfSupported(c.store); err == nil {
			err = storeErr
		}
	}
	return err
}

// RolloutSummary aggregates a random-policy rollout.
type RolloutSummary struct {
	Episodes   int
	AgentSteps uint64
	Exposure   []ExposureBucket
}

// Rollout runs episodes under a uniform random policy, resetting on
// termination or after maxSteps environment steps per episode. It is the
// smallest useful stand-in for a training loop.
func (c *Client) Rollout(ctx context.Context, episodes, maxSteps int, seed int64) (RolloutSummary, error) {
	if episodes <= 0 {
		return RolloutSummary{}, errors.New("episodes must be positive")
	}
	if maxSteps <= 0 {
		maxSteps = 300
	}

	summary := RolloutSummary{}
	req := &ResetRequest{Seed: &seed}
	for ep := 0; ep < episodes; ep++ {
		reset, err := c.env.Reset(ctx, req)
		if err != nil {
			return summary, fmt.Errorf("episode %d reset: %w", ep, err)
		}
		req = &ResetRequest{}

		agents := len(reset.Obs)
		for step := 0; step < maxSteps; step++ {
			result, err := c.env.Step(ctx, c.sampleActions(agents))
			if err != nil {
				return summary, fmt.Errorf("episode %d step %d: %w", ep, step, err)
			}
			summary.AgentSteps += uint64(agents)
			if result.Terminated {
				break
			}
		}
		summary.Episodes++
	}
	summary.Exposure = c.env.Exposure()
	return summary, nil
}

func (c *Client) sampleActions(agents int) [][]float64 {
	rng := c.env.Rand()
	space, ok := c.env.ActionSpace().(DiscreteSpace)
	if !ok {
		space = DiscreteSpace{N: 8, Options: 3}
	}
	actions := make([][]float64, agents)
	for i := range actions {
		row := make([]float64, space.N)
		for j := range row {
			row[j] = float64(rng.Intn(space.Options))
		}
		actions[i] = row
	}
	return actions
}
