// Package env adapts a multi-agent match simulation to the standard
// single-environment step/reset contract, choosing the match shape for
// each episode from a declarative configuration.
package env

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"matchenv/internal/config"
	"matchenv/internal/model"
	"matchenv/internal/schedule"
	"matchenv/internal/sim"
	"matchenv/internal/storage"
)

// StepResult is the five-tuple returned by Step. Truncated is always
// false: the underlying simulation does not distinguish truncation from
// natural termination, so every episode end is reported as termination.
type StepResult struct {
	Obs        [][]float64
	Rewards    []float64
	Terminated bool
	Truncated  bool
	Info       map[string]any
}

// ResetRequest carries the optional reset arguments. A non-nil Seed
// reseeds the wrapper's random source; a nil Seed leaves it untouched.
// A non-nil Options mapping replaces the stored configuration outright
// and forces a full rebuild of the simulation.
type ResetRequest struct {
	Seed       *int64
	ReturnInfo bool
	Options    config.Raw
}

// ResetResult is the initial observation of the new episode. Info is nil
// unless ReturnInfo was set.
type ResetResult struct {
	Obs  [][]float64
	Info map[string]any
}

// Option configures the wrapper at construction.
type Option func(*Env)

// WithLogger routes the wrapper's diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Env) { e.logger = logger }
}

// WithMakeFunc substitutes the engine constructor. The default builds the
// in-process match engine.
func WithMakeFunc(makeFn sim.MakeFunc) Option {
	return func(e *Env) { e.makeFn = makeFn }
}

// WithStore journals episode records and exposure snapshots to the given
// store. Without it the wrapper keeps no history beyond the live table.
func WithStore(store storage.Store) Option {
	return func(e *Env) { e.store = store }
}

// WithRunID fixes the run identifier used for journaled records.
func WithRunID(runID string) Option {
	return func(e *Env) { e.runID = runID }
}

// Env owns the underlying simulation and presents it as a single
// environment. Step and Reset are not safe for concurrent use; the
// training loop drives them strictly in sequence.
type Env struct {
	logger zerolog.Logger
	makeFn sim.MakeFunc
	store  storage.Store
	runID  string

	raw    config.Raw
	cfg    *config.MakeConfig
	engine sim.Engine

	table      *schedule.Table
	active     schedule.Key
	firstReset bool

	obsSpace model.Space
	actSpace model.Space

	rng *rand.Rand

	episodeID      string
	episodeSteps   uint64
	episodeStarted time.Time
}

// New normalizes the raw configuration, constructs the simulation, and
// seeds the accounting table from the declared candidate sets.
func New(raw config.Raw, opts ...Option) (*Env, error) {
	e := &Env{
		logger:     zerolog.Nop(),
		makeFn:     sim.NewMatchEngine,
		firstReset: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.runID == "" {
		e.runID = uuid.NewString()
	}

	if err := e.configure(raw); err != nil {
		return nil, err
	}
	e.episodeID = uuid.NewString()
	e.episodeStarted = time.Now()
	return e, nil
}

// configure resolves raw into a live engine and a fresh accounting table.
// The previous engine, if any, is released first: both cannot coexist.
func (e *Env) configure(raw config.Raw) error {
	cfg, _, err := config.Normalize(raw, e.logger)
	if err != nil {
		return err
	}

	if e.engine != nil {
		if err := e.engine.Close(); err != nil {
			return fmt.Errorf("close engine: %w", err)
		}
		e.engine = nil
	}

	engine, err := e.makeFn(cfg)
	if err != nil {
		return err
	}

	e.raw = raw
	e.cfg = cfg
	e.engine = engine
	e.obsSpace = engine.ObservationSpace()
	e.actSpace = engine.ActionSpace()

	e.active = schedule.Key{
		Opponents: cfg.SpawnOpponents.Materialize(),
		TeamSize:  cfg.TeamSize.Materialize(),
	}
	e.table = schedule.NewTable(cfg.OpponentValues(), cfg.TeamSizeValues())

	e.logger.Info().
		Bool("opponents", e.active.Opponents).
		Int("team_size", e.active.TeamSize).
		Msg("simulation configured")
	return nil
}

// ObservationSpace is refreshed after every rebuild.
func (e *Env) ObservationSpace() model.Space { return e.obsSpace }

// ActionSpace is refreshed after every rebuild.
func (e *Env) ActionSpace() model.Space { return e.actSpace }

// ActiveConfiguration reports the candidate values governing the live
// episode.
func (e *Env) ActiveConfiguration() (opponents bool, teamSize int) {
	return e.active.Opponents, e.active.TeamSize
}

// Exposure snapshots the accounting table in deterministic order.
func (e *Env) Exposure() []model.ExposureBucket {
	return e.table.Snapshot()
}

// RunID identifies this wrapper's journaled records.
func (e *Env) RunID() string { return e.runID }

// Step advances the simulation one environment step. Exposure is credited
// to the active configuration before delegation, unconditionally: one
// agent-step per controllable agent, counting both sides when opponents
// are present.
func (e *Env) Step(ctx context.Context, actions [][]float64) (StepResult, error) {
	if e.engine == nil {
		return StepResult{}, errors.New("environment is not configured")
	}

	agents := uint64(e.active.TeamSize)
	if e.active.Opponents {
		agents *= 2
	}
	e.table.Add(e.active, agents)
	e.episodeSteps += agents

	outcome, err := e.engine.Step(ctx, actions)
	if err != nil {
		return StepResult{}, err
	}

	return StepResult{
		Obs:        outcome.Obs,
		Rewards:    outcome.Rewards,
		Terminated: outcome.Done,
		Truncated:  false,
		Info:       outcome.Info,
	}, nil
}

// Reset starts the next episode. When req.Options is non-nil it replaces
// the entire stored configuration: the simulation is torn down and
// rebuilt, the accounting table is reinitialized from the new candidate
// sets, and the space descriptors are refreshed. Exposure history does not
// survive such a rebuild. Every reset then runs the selector and informs
// the team-size setter before delegating downward.
func (e *Env) Reset(ctx context.Context, req *ResetRequest) (ResetResult, error) {
	if req == nil {
		req = &ResetRequest{}
	}

	e.journalEpisode(ctx)

	if req.Options != nil {
		if err := e.configure(req.Options); err != nil {
			return ResetResult{}, err
		}
		e.logger.Info().Msg("simulation rebuilt from reset options")
	}

	candidates := schedule.Candidates{}
	if _, ok := e.cfg.SpawnOpponents.Candidates(); ok {
		candidates.Opponents = e.cfg.OpponentValues()
	}
	if _, ok := e.cfg.TeamSize.Candidates(); ok {
		candidates.TeamSizes = e.cfg.TeamSizeValues()
	}

	e.active = schedule.Select(e.table, candidates, e.active, e.firstReset)
	e.firstReset = false

	blue := e.active.TeamSize
	orange := 0
	if e.active.Opponents {
		orange = e.active.TeamSize
	}
	e.cfg.StateSetter.SetTeamSize(blue, orange)

	if req.Seed != nil {
		e.rng = rand.New(rand.NewSource(*req.Seed))
	}

	outcome, err := e.engine.Reset(ctx)
	if err != nil {
		return ResetResult{}, err
	}

	e.episodeID = uuid.NewString()
	e.episodeSteps = 0
	e.episodeStarted = time.Now()

	result := ResetResult{Obs: outcome.Obs}
	if req.ReturnInfo {
		result.Info = outcome.Info
	}
	return result, nil
}

// Rand exposes the wrapper's random source, creating an unseeded one on
// first use.
func (e *Env) Rand() *rand.Rand {
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e.rng
}

// Close releases the underlying simulation.
func (e *Env) Close() error {
	if e.engine == nil {
		return nil
	}
	err := e.engine.Close()
	e.engine = nil
	return err
}

// journalEpisode persists the episode that just finished, if any steps
// were taken and a store is configured. Store failures are logged, never
// propagated: journaling is advisory.
func (e *Env) journalEpisode(ctx context.Context) {
	if e.store == nil || e.episodeSteps == 0 {
		return
	}

	record := model.EpisodeRecord{
		RunID:      e.runID,
		EpisodeID:  e.episodeID,
		Opponents:  e.active.Opponents,
		TeamSize:   e.active.TeamSize,
		AgentSteps: e.episodeSteps,
		StartedAt:  e.episodeStarted,
		EndedAt:    time.Now(),
	}
	if err := e.store.SaveEpisode(ctx, record); err != nil {
		e.logger.Warn().Err(err).Msg("failed to journal episode")
	}
	if err := e.store.SaveExposure(ctx, e.runID, e.table.Snapshot()); err != nil {
		e.logger.Warn().Err(err).Msg("failed to journal exposure snapshot")
	}
}
