package sim

import (
	"context"
	"errors"
	"math"

	"matchenv/internal/config"
	"matchenv/internal/model"
)

// Arena extents, in simulation units.
const (
	sideWall   = 4096.0
	backWall   = 5120.0
	ceiling    = 2044.0
	ballRadius = 93.0
	carSpeed   = 1410.0
	tickRate   = 120.0
)

var errEngineClosed = errors.New("engine is closed")

// MatchEngine is a deterministic in-process match simulation. It is not a
// physics-accurate rendition of the sport; it exists so the wrapper,
// components, and scheduler can be exercised end to end without an
// external process.
type MatchEngine struct {
	cfg    *config.MakeConfig
	state  model.GameState
	closed bool

	obsSpace model.Space
	actSpace model.Space
}

// NewMatchEngine builds the engine from a normalized configuration.
func NewMatchEngine(cfg *config.MakeConfig) (Engine, error) {
	if cfg == nil {
		return nil, errors.New("match engine requires a config")
	}
	e := &MatchEngine{cfg: cfg}

	maxPlayers := cfg.MaxPlayers()
	e.obsSpace = model.BoxSpace{
		Low:  math.Inf(-1),
		High: math.Inf(1),
		Dims: []int{cfg.ObsBuilder.ObsSize(maxPlayers)},
	}
	e.actSpace = cfg.ActionParser.ActionSpace()

	// Construction spawns the materialized roster so space descriptors
	// reflect the largest episode this configuration can produce.
	size := cfg.TeamSize.Materialize()
	orange := 0
	if cfg.SpawnOpponents.Materialize() {
		orange = size
	}
	cfg.StateSetter.SetTeamSize(size, orange)
	cfg.StateSetter.ResetState(&e.state)

	return e, nil
}

func (e *MatchEngine) ObservationSpace() model.Space { return e.obsSpace }

func (e *MatchEngine) ActionSpace() model.Space { return e.actSpace }

func (e *MatchEngine) Reset(ctx context.Context) (ResetOutcome, error) {
	if e.closed {
		return ResetOutcome{}, errEngineClosed
	}
	if err := ctx.Err(); err != nil {
		return ResetOutcome{}, err
	}

	e.cfg.StateSetter.ResetState(&e.state)
	e.cfg.ObsBuilder.Reset(&e.state)
	e.cfg.Reward.Reset(&e.state)
	for _, condition := range e.cfg.TerminalConditions {
		condition.Reset(&e.state)
	}

	return ResetOutcome{
		Obs:  e.buildObs(),
		Info: e.info(),
	}, nil
}

func (e *MatchEngine) Step(ctx context.Context, actions [][]float64) (StepOutcome, error) {
	if e.closed {
		return StepOutcome{}, errEngineClosed
	}
	if err := ctx.Err(); err != nil {
		return StepOutcome{}, err
	}

	controls, err := e.cfg.ActionParser.ParseActions(actions, &e.state)
	if err != nil {
		return StepOutcome{}, err
	}

	for tick := 0; tick < e.cfg.TickSkip; tick++ {
		e.advance(controls)
	}

	done := false
	for _, condition := range e.cfg.TerminalConditions {
		if condition.IsTerminal(&e.state) {
			done = true
			break
		}
	}

	rewards := make([]float64, len(e.state.Players))
	for i, player := range e.state.Players {
		rewards[i] = e.cfg.Reward.GetReward(player, &e.state)
	}

	return StepOutcome{
		Obs:     e.buildObs(),
		Rewards: rewards,
		Done:    done,
		Info:    e.info(),
	}, nil
}

func (e *MatchEngine) Close() error {
	e.closed = true
	return nil
}

func (e *MatchEngine) buildObs() [][]float64 {
	obs := make([][]float64, len(e.state.Players))
	for i, player := range e.state.Players {
		obs[i] = e.cfg.ObsBuilder.BuildObs(player, &e.state)
	}
	return obs
}

func (e *MatchEngine) info() map[string]any {
	info := map[string]any{
		"tick":         e.state.Tick,
		"blue_score":   e.state.BlueScore,
		"orange_score": e.state.OrangeScore,
	}
	if e.cfg.CopyGamestateEveryStep {
		state := e.state
		state.Players = append([]model.PlayerCar(nil), e.state.Players...)
		info["state"] = state
	}
	return info
}

// advance integrates one simulation tick.
func (e *MatchEngine) advance(controls []model.CarControls) {
	dt := 1.0 / tickRate
	e.state.Tick++

	for i := range e.state.Players {
		player := &e.state.Players[i]
		if i >= len(controls) {
			break
		}
		ctl := controls[i]

		speed := carSpeed
		if ctl.Boost && player.Boost > 0 {
			speed *= 1.5
			player.Boost -= 0.333 * dt * e.cfg.BoostConsumption
			if player.Boost < 0 {
				player.Boost = 0
			}
		}
		heading := ctl.Steer * math.Pi / 2
		player.Car.Velocity[0] = speed * ctl.Throttle * math.Cos(heading)
		player.Car.Velocity[1] = speed * ctl.Throttle * math.Sin(heading)
		if ctl.Jump && player.OnGround && math.Abs(ctl.Pitch) >= e.cfg.DodgeDeadzone {
			player.Car.Velocity[2] = 292
			player.OnGround = false
		}

		for axis := 0; axis < 3; axis++ {
			player.Car.Position[axis] += player.Car.Velocity[axis] * dt
		}
		if !player.OnGround {
			player.Car.Velocity[2] -= 650 * e.cfg.Gravity * dt
			if player.Car.Position[2] <= 17 {
				player.Car.Position[2] = 17
				player.Car.Velocity[2] = 0
				player.OnGround = true
			}
		}
		clampToArena(&player.Car)

		// Cars within reach push the ball toward the opposing goal.
		if dist(player.Car.Position, e.state.Ball.Position) < 2*ballRadius {
			dir := 1.0
			if player.Team == model.OrangeTeam {
				dir = -1
			}
			e.state.Ball.Velocity[1] = dir * carSpeed
			e.state.Ball.Velocity[0] = (e.state.Ball.Position[0] - player.Car.Position[0]) / dt / 60
		}
	}

	for axis := 0; axis < 3; axis++ {
		e.state.Ball.Position[axis] += e.state.Ball.Velocity[axis] * dt
		e.state.Ball.Velocity[axis] *= 1 - 0.03*dt
	}
	e.state.Ball.Velocity[2] -= 650 * e.cfg.Gravity * dt
	if e.state.Ball.Position[2] < ballRadius {
		e.state.Ball.Position[2] = ballRadius
		e.state.Ball.Velocity[2] = -0.6 * e.state.Ball.Velocity[2]
	}

	if e.state.Ball.Position[1] > backWall {
		e.state.BlueScore++
		e.resetBall()
	} else if e.state.Ball.Position[1] < -backWall {
		e.state.OrangeScore++
		e.resetBall()
	}
	clampToArena(&e.state.Ball)
}

func (e *MatchEngine) resetBall() {
	e.state.Ball = model.PhysicsObject{Position: [3]float64{0, 0, ballRadius}}
}

func clampToArena(body *model.PhysicsObject) {
	body.Position[0] = clamp(body.Position[0], -sideWall, sideWall)
	body.Position[1] = clamp(body.Position[1], -backWall, backWall)
	body.Position[2] = clamp(body.Position[2], 0, ceiling)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func dist(a, b [3]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
