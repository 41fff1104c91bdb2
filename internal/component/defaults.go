package component

import (
	"fmt"
	"math"

	"matchenv/internal/model"
)

const (
	DefaultRewardName        = "default_reward"
	DefaultObsName           = "default_obs"
	DiscreteActionName       = "discrete_action"
	DefaultStateName         = "default_state"
	TimeoutConditionName     = "timeout"
	GoalScoredConditionName  = "goal_scored"
	DefaultTimeoutTicks      = 225
	discreteThrottleOptions  = 3
	discreteControlsPerAgent = 8
)

// DefaultReward emits zero for every transition; trainers substitute their
// own shaped reward through the registry.
type DefaultReward struct{}

func NewDefaultReward() *DefaultReward { return &DefaultReward{} }

func (*DefaultReward) Name() string { return DefaultRewardName }

func (*DefaultReward) Reset(_ *model.GameState) {}

func (*DefaultReward) GetReward(_ model.PlayerCar, _ *model.GameState) float64 {
	return 0
}

// DefaultObs concatenates ball state, the player's own car, and every other
// roster slot, zero-padding slots that are empty this episode.
type DefaultObs struct {
	maxPlayers int
}

func NewDefaultObs() *DefaultObs { return &DefaultObs{} }

func (*DefaultObs) Name() string { return DefaultObsName }

func (o *DefaultObs) Reset(state *model.GameState) {
	if len(state.Players) > o.maxPlayers {
		o.maxPlayers = len(state.Players)
	}
}

// Each player slot carries 9 kinematic features plus boost, ground contact,
// and team.
const (
	ballFeatures   = 9
	playerFeatures = 12
)

func (o *DefaultObs) ObsSize(maxPlayers int) int {
	if maxPlayers > o.maxPlayers {
		o.maxPlayers = maxPlayers
	}
	return ballFeatures + o.maxPlayers*playerFeatures
}

func (o *DefaultObs) BuildObs(player model.PlayerCar, state *model.GameState) []float64 {
	if len(state.Players) > o.maxPlayers {
		o.maxPlayers = len(state.Players)
	}
	obs := make([]float64, 0, ballFeatures+o.maxPlayers*playerFeatures)
	obs = appendPhysics(obs, state.Ball)
	obs = appendPlayer(obs, player)
	for _, other := range state.Players {
		if other.ID == player.ID {
			continue
		}
		obs = appendPlayer(obs, other)
	}
	for len(obs) < ballFeatures+o.maxPlayers*playerFeatures {
		obs = append(obs, 0)
	}
	return obs
}

func appendPhysics(obs []float64, body model.PhysicsObject) []float64 {
	obs = append(obs, body.Position[:]...)
	obs = append(obs, body.Velocity[:]...)
	return append(obs, body.AngularVelocity[:]...)
}

func appendPlayer(obs []float64, player model.PlayerCar) []float64 {
	obs = appendPhysics(obs, player.Car)
	ground := 0.0
	if player.OnGround {
		ground = 1
	}
	return append(obs, player.Boost, ground, float64(player.Team))
}

// DiscreteAction maps an 8-wide row of {0,1,2} bins per agent onto car
// controls, with the binary channels thresholded at 1.
type DiscreteAction struct{}

func NewDiscreteAction() *DiscreteAction { return &DiscreteAction{} }

func (*DiscreteAction) Name() string { return DiscreteActionName }

func (*DiscreteAction) ActionSpace() model.Space {
	return model.DiscreteSpace{N: discreteControlsPerAgent, Options: discreteThrottleOptions}
}

func (*DiscreteAction) ParseActions(actions [][]float64, state *model.GameState) ([]model.CarControls, error) {
	if len(actions) != len(state.Players) {
		return nil, fmt.Errorf("expected %d action rows, got %d", len(state.Players), len(actions))
	}
	controls := make([]model.CarControls, len(actions))
	for i, row := range actions {
		if len(row) != discreteControlsPerAgent {
			return nil, fmt.Errorf("action row %d: expected %d entries, got %d", i, discreteControlsPerAgent, len(row))
		}
		controls[i] = model.CarControls{
			Throttle:  bin(row[0]),
			Steer:     bin(row[1]),
			Pitch:     bin(row[2]),
			Yaw:       bin(row[3]),
			Roll:      bin(row[4]),
			Jump:      row[5] >= 1,
			Boost:     row[6] >= 1,
			Handbrake: row[7] >= 1,
		}
	}
	return controls, nil
}

// bin maps {0,1,2} onto {-1,0,1}.
func bin(v float64) float64 {
	return math.Round(v) - 1
}

// DefaultState spawns the ball at center and the cars on fixed kickoff spots.
type DefaultState struct{}

func NewDefaultState() *DefaultState { return &DefaultState{} }

func (*DefaultState) Name() string { return DefaultStateName }

func (*DefaultState) ResetState(state *model.GameState) {
	state.Ball = model.PhysicsObject{Position: [3]float64{0, 0, 93}}
	for i := range state.Players {
		player := &state.Players[i]
		side := 1.0
		if player.Team == model.OrangeTeam {
			side = -1
		}
		player.Car = model.PhysicsObject{
			Position: [3]float64{float64(i%3-1) * 256, side * -4608, 17},
		}
		player.Boost = 0.34
		player.OnGround = true
	}
}

// TimeoutCondition terminates an episode after a fixed number of ticks.
type TimeoutCondition struct {
	maxTicks  int64
	startTick int64
}

func NewTimeoutCondition(maxTicks int64) *TimeoutCondition {
	return &TimeoutCondition{maxTicks: maxTicks}
}

func (*TimeoutCondition) Name() string { return TimeoutConditionName }

func (c *TimeoutCondition) Reset(state *model.GameState) {
	c.startTick = state.Tick
}

func (c *TimeoutCondition) IsTerminal(state *model.GameState) bool {
	return state.Tick-c.startTick >= c.maxTicks
}

// GoalScoredCondition terminates the episode on any score change.
type GoalScoredCondition struct {
	blue   int
	orange int
}

func NewGoalScoredCondition() *GoalScoredCondition { return &GoalScoredCondition{} }

func (*GoalScoredCondition) Name() string { return GoalScoredConditionName }

func (c *GoalScoredCondition) Reset(state *model.GameState) {
	c.blue = state.BlueScore
	c.orange = state.OrangeScore
}

func (c *GoalScoredCondition) IsTerminal(state *model.GameState) bool {
	return state.BlueScore != c.blue || state.OrangeScore != c.orange
}

func init() {
	registerDefaults()
}

func registerDefaults() {
	mustRegister(RegisterReward(DefaultRewardName, func(Params) (Reward, error) {
		return NewDefaultReward(), nil
	}))
	mustRegister(RegisterObsBuilder(DefaultObsName, func(Params) (ObsBuilder, error) {
		return NewDefaultObs(), nil
	}))
	mustRegister(RegisterActionParser(DiscreteActionName, func(Params) (ActionParser, error) {
		return NewDiscreteAction(), nil
	}))
	mustRegister(RegisterStateSetter(DefaultStateName, func(Params) (StateSetter, error) {
		return NewDefaultState(), nil
	}))
	mustRegister(RegisterTerminalCondition(TimeoutConditionName, func(params Params) (TerminalCondition, error) {
		ticks := int64(DefaultTimeoutTicks)
		if raw, ok := params["max_ticks"]; ok {
			switch v := raw.(type) {
			case int:
				ticks = int64(v)
			case int64:
				ticks = v
			case float64:
				ticks = int64(v)
			default:
				return nil, fmt.Errorf("%w: max_ticks must be numeric, got %T", ErrBadSpec, raw)
			}
		}
		return NewTimeoutCondition(ticks), nil
	}))
	mustRegister(RegisterTerminalCondition(GoalScoredConditionName, func(Params) (TerminalCondition, error) {
		return NewGoalScoredCondition(), nil
	}))
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}
