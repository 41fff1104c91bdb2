package config

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"matchenv/internal/component"
	"matchenv/internal/model"
)

func TestNormalizeDefaults(t *testing.T) {
	cfg, diags, err := Normalize(Raw{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	if cfg.Reward.Name() != component.DefaultRewardName {
		t.Fatalf("unexpected reward: %s", cfg.Reward.Name())
	}
	if cfg.ObsBuilder.Name() != component.DefaultObsName {
		t.Fatalf("unexpected obs builder: %s", cfg.ObsBuilder.Name())
	}
	if cfg.ActionParser.Name() != component.DiscreteActionName {
		t.Fatalf("unexpected action parser: %s", cfg.ActionParser.Name())
	}
	if len(cfg.TerminalConditions) != 2 {
		t.Fatalf("expected timeout and goal conditions, got %d", len(cfg.TerminalConditions))
	}
	if cfg.StateSetter == nil {
		t.Fatal("state setter must be wrapped for dynamic team size")
	}
	if cfg.TeamSize.Materialize() != DefaultTeamSize {
		t.Fatalf("unexpected team size: %d", cfg.TeamSize.Materialize())
	}
	if cfg.SpawnOpponents.Materialize() {
		t.Fatal("opponents must default to absent")
	}
	if cfg.TickSkip != DefaultTickSkip || cfg.Gravity != DefaultGravity ||
		cfg.BoostConsumption != DefaultBoostConsumption || cfg.DodgeDeadzone != DefaultDodgeDeadzone {
		t.Fatalf("unexpected plain defaults: %+v", cfg)
	}
}

func TestNormalizeUnknownKeyWarnsAndContinues(t *testing.T) {
	cfg, diags, err := Normalize(Raw{
		"no_such_setting": 7,
		KeyTickSkip:       4,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unknown keys must not abort construction: %v", err)
	}
	if len(diags) != 1 || diags[0].Key != "no_such_setting" {
		t.Fatalf("expected one diagnostic for the unknown key, got %v", diags)
	}
	if cfg.TickSkip != 4 {
		t.Fatalf("recognized keys must still apply, tick skip = %d", cfg.TickSkip)
	}
}

func TestNormalizeCandidateCoercion(t *testing.T) {
	cfg, _, err := Normalize(Raw{
		KeyTeamSize:       []any{1, 3, 2},
		KeySpawnOpponents: []any{false, true},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if cfg.TeamSize.Materialize() != 3 {
		t.Fatalf("team-size candidates must materialize to max, got %d", cfg.TeamSize.Materialize())
	}
	if !cfg.SpawnOpponents.Materialize() {
		t.Fatal("opponents candidates must materialize to true")
	}
	if sizes, ok := cfg.TeamSize.Candidates(); !ok || len(sizes) != 3 {
		t.Fatalf("candidate declaration lost: %v %v", sizes, ok)
	}
	if _, ok := cfg.SpawnOpponents.Candidates(); !ok {
		t.Fatal("opponents candidate declaration lost")
	}
}

func TestNormalizeEmptyCandidatesFailFast(t *testing.T) {
	_, _, err := Normalize(Raw{KeyTeamSize: []any{}}, zerolog.Nop())
	if !errors.Is(err, ErrEmptyCandidates) {
		t.Fatalf("expected ErrEmptyCandidates, got %v", err)
	}
}

func TestNormalizeBuildsComponentsFromSpecs(t *testing.T) {
	cfg, _, err := Normalize(Raw{
		KeyRewardFunction: component.DefaultRewardName,
		KeyTerminalConditions: []any{
			map[string]any{"name": component.TimeoutConditionName, "max_ticks": 50},
		},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(cfg.TerminalConditions) != 1 {
		t.Fatalf("expected one terminal condition, got %d", len(cfg.TerminalConditions))
	}
	if cfg.TerminalConditions[0].Name() != component.TimeoutConditionName {
		t.Fatalf("unexpected condition: %s", cfg.TerminalConditions[0].Name())
	}
}

func TestNormalizeUnknownComponentFails(t *testing.T) {
	_, _, err := Normalize(Raw{KeyRewardFunction: "no_such_reward"}, zerolog.Nop())
	if !errors.Is(err, component.ErrComponentNotFound) {
		t.Fatalf("expected ErrComponentNotFound, got %v", err)
	}
}

func TestNormalizePassesPrebuiltComponentsThrough(t *testing.T) {
	reward := component.NewDefaultReward()
	cfg, _, err := Normalize(Raw{KeyRewardFunction: reward}, zerolog.Nop())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Reward != component.Reward(reward) {
		t.Fatal("prebuilt reward must pass through unchanged")
	}
}

func TestMaxPlayers(t *testing.T) {
	cfg, _, err := Normalize(Raw{
		KeyTeamSize:       []any{1, 2},
		KeySpawnOpponents: []any{false, true},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := cfg.MaxPlayers(); got != 4 {
		t.Fatalf("max players: got %d, want 4", got)
	}
}

func TestDynamicSetterControlsRoster(t *testing.T) {
	cfg, _, err := Normalize(Raw{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	cfg.StateSetter.SetTeamSize(2, 1)
	var state model.GameState
	cfg.StateSetter.ResetState(&state)

	if state.BlueCount() != 2 || state.OrangeCount() != 1 {
		t.Fatalf("roster: blue=%d orange=%d", state.BlueCount(), state.OrangeCount())
	}
}
