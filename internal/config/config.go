package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"matchenv/internal/component"
)

// Raw is a declarative match configuration as supplied by a caller or a
// config file.
type Raw map[string]any

// Recognized raw keys.
const (
	KeyRewardFunction         = "reward_function"
	KeyTerminalConditions     = "terminal_conditions"
	KeyObsBuilder             = "obs_builder"
	KeyActionParser           = "action_parser"
	KeyStateSetter            = "state_setter"
	KeyTeamSize               = "team_size"
	KeySpawnOpponents         = "spawn_opponents"
	KeyCopyGamestateEveryStep = "copy_gamestate_every_step"
	KeyTickSkip               = "tick_skip"
	KeyGravity                = "gravity"
	KeyBoostConsumption       = "boost_consumption"
	KeyDodgeDeadzone          = "dodge_deadzone"
)

// Default plain settings.
const (
	DefaultTeamSize         = 1
	DefaultTickSkip         = 8
	DefaultGravity          = 1.0
	DefaultBoostConsumption = 1.0
	DefaultDodgeDeadzone    = 0.8
)

// MakeConfig is a fully resolved match configuration, ready to construct
// the simulation. Pluggable components are built; the state setter is
// already wrapped for dynamic roster control.
type MakeConfig struct {
	Reward             component.Reward
	ObsBuilder         component.ObsBuilder
	ActionParser       component.ActionParser
	StateSetter        *component.DynamicTeamSizeSetter
	TerminalConditions []component.TerminalCondition

	TeamSize       IntSetting
	SpawnOpponents BoolSetting

	CopyGamestateEveryStep bool
	TickSkip               int
	Gravity                float64
	BoostConsumption       float64
	DodgeDeadzone          float64
}

// TeamSizeValues returns the team-size candidate domain: the declared
// candidates, or the fixed value alone.
func (c *MakeConfig) TeamSizeValues() []int {
	if vs, ok := c.TeamSize.Candidates(); ok {
		return vs
	}
	return []int{c.TeamSize.Materialize()}
}

// OpponentValues returns the opponents-present candidate domain.
func (c *MakeConfig) OpponentValues() []bool {
	if vs, ok := c.SpawnOpponents.Candidates(); ok {
		return vs
	}
	return []bool{c.SpawnOpponents.Materialize()}
}

// MaxPlayers is the largest roster the materialized configuration can
// instantiate: the construction-time team size on both sides.
func (c *MakeConfig) MaxPlayers() int {
	size := c.TeamSize.Materialize()
	if c.SpawnOpponents.Materialize() {
		return 2 * size
	}
	return size
}

// Diagnostic is a non-fatal normalization finding, also emitted through the
// supplied logger.
type Diagnostic struct {
	Key     string
	Message string
}

// Normalize merges a raw configuration over the defaults, building every
// pluggable component. Unrecognized keys are reported and skipped, never
// fatal. Empty candidate sets are a hard error.
func Normalize(raw Raw, logger zerolog.Logger) (*MakeConfig, []Diagnostic, error) {
	cfg := &MakeConfig{
		Reward:       component.NewDefaultReward(),
		ObsBuilder:   component.NewDefaultObs(),
		ActionParser: component.NewDiscreteAction(),
		TerminalConditions: []component.TerminalCondition{
			component.NewTimeoutCondition(component.DefaultTimeoutTicks),
			component.NewGoalScoredCondition(),
		},
		TeamSize:         FixedInt(DefaultTeamSize),
		SpawnOpponents:   FixedBool(false),
		TickSkip:         DefaultTickSkip,
		Gravity:          DefaultGravity,
		BoostConsumption: DefaultBoostConsumption,
		DodgeDeadzone:    DefaultDodgeDeadzone,
	}

	var setter component.StateSetter = component.NewDefaultState()
	var diags []Diagnostic

	for key, value := range raw {
		var err error
		switch key {
		case KeyRewardFunction:
			cfg.Reward, err = component.BuildReward(value)
		case KeyObsBuilder:
			cfg.ObsBuilder, err = component.BuildObsBuilder(value)
		case KeyActionParser:
			cfg.ActionParser, err = component.BuildActionParser(value)
		case KeyStateSetter:
			setter, err = component.BuildStateSetter(value)
		case KeyTerminalConditions:
			cfg.TerminalConditions, err = component.BuildTerminalConditions(value)
		case KeyTeamSize:
			cfg.TeamSize, err = parseIntSetting(value)
		case KeySpawnOpponents:
			cfg.SpawnOpponents, err = parseBoolSetting(value)
		case KeyCopyGamestateEveryStep:
			cfg.CopyGamestateEveryStep, err = requireBool(value)
		case KeyTickSkip:
			cfg.TickSkip, err = requireInt(value)
		case KeyGravity:
			cfg.Gravity, err = requireFloat64(value)
		case KeyBoostConsumption:
			cfg.BoostConsumption, err = requireFloat64(value)
		case KeyDodgeDeadzone:
			cfg.DodgeDeadzone, err = requireFloat64(value)
		default:
			diag := Diagnostic{Key: key, Message: "unrecognized config key, skipping"}
			diags = append(diags, diag)
			logger.Warn().Str("key", key).Msg("unrecognized config key, skipping")
			continue
		}
		if err != nil {
			return nil, diags, fmt.Errorf("config key %s: %w", key, err)
		}
	}

	cfg.StateSetter = component.NewDynamicTeamSizeSetter(setter)
	return cfg, diags, nil
}

func parseIntSetting(value any) (IntSetting, error) {
	if vs, ok := asIntList(value); ok {
		return IntCandidates(vs)
	}
	v, err := requireInt(value)
	if err != nil {
		return IntSetting{}, err
	}
	return FixedInt(v), nil
}

func parseBoolSetting(value any) (BoolSetting, error) {
	if vs, ok := asBoolList(value); ok {
		return BoolCandidates(vs)
	}
	v, err := requireBool(value)
	if err != nil {
		return BoolSetting{}, err
	}
	return FixedBool(v), nil
}

func requireInt(value any) (int, error) {
	v, ok := asInt(value)
	if !ok {
		return 0, fmt.Errorf("expected integer, got %T", value)
	}
	return v, nil
}

func requireBool(value any) (bool, error) {
	v, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("expected bool, got %T", value)
	}
	return v, nil
}

func requireFloat64(value any) (float64, error) {
	v, ok := asFloat64(value)
	if !ok {
		return 0, fmt.Errorf("expected number, got %T", value)
	}
	return v, nil
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func asIntList(v any) ([]int, bool) {
	switch xs := v.(type) {
	case []int:
		return append([]int(nil), xs...), true
	case []any:
		out := make([]int, 0, len(xs))
		for _, item := range xs {
			n, ok := asInt(item)
			if !ok {
				return nil, false
			}
			out = append(out, n)
		}
		return out, true
	default:
		return nil, false
	}
}

func asBoolList(v any) ([]bool, bool) {
	switch xs := v.(type) {
	case []bool:
		return append([]bool(nil), xs...), true
	case []any:
		out := make([]bool, 0, len(xs))
		for _, item := range xs {
			b, ok := item.(bool)
			if !ok {
				return nil, false
			}
			out = append(out, b)
		}
		return out, true
	default:
		return nil, false
	}
}
