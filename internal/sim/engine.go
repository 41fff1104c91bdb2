// Package sim defines the simulation-engine boundary the environment
// wrapper drives, plus a built-in deterministic match engine.
package sim

import (
	"context"

	"matchenv/internal/config"
	"matchenv/internal/model"
)

// StepOutcome is one tick's result for every controllable agent.
type StepOutcome struct {
	Obs     [][]float64
	Rewards []float64
	Done    bool
	Info    map[string]any
}

// ResetOutcome is the initial observation of a fresh episode.
type ResetOutcome struct {
	Obs  [][]float64
	Info map[string]any
}

// Engine is the contract the wrapper requires of an underlying simulation.
type Engine interface {
	Step(ctx context.Context, actions [][]float64) (StepOutcome, error)
	Reset(ctx context.Context) (ResetOutcome, error)
	Close() error
	ObservationSpace() model.Space
	ActionSpace() model.Space
}

// MakeFunc constructs an engine from a normalized configuration. The
// wrapper calls it at construction and again on every full rebuild.
type MakeFunc func(cfg *config.MakeConfig) (Engine, error)
