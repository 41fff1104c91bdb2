package component

import "matchenv/internal/model"

// Reward scores one player's last transition.
type Reward interface {
	Name() string
	Reset(state *model.GameState)
	GetReward(player model.PlayerCar, state *model.GameState) float64
}

// ObsBuilder turns the game state into one player's observation vector.
type ObsBuilder interface {
	Name() string
	Reset(state *model.GameState)
	BuildObs(player model.PlayerCar, state *model.GameState) []float64
	// ObsSize reports the fixed observation width for a match built with
	// maxPlayers total cars. Smaller live rosters are zero-padded to it.
	ObsSize(maxPlayers int) int
}

// ActionParser maps raw per-agent action rows onto car controls.
type ActionParser interface {
	Name() string
	ParseActions(actions [][]float64, state *model.GameState) ([]model.CarControls, error)
	ActionSpace() model.Space
}

// TerminalCondition decides whether the current episode is over.
type TerminalCondition interface {
	Name() string
	Reset(state *model.GameState)
	IsTerminal(state *model.GameState) bool
}

// StateSetter arranges the initial game state for an episode.
type StateSetter interface {
	Name() string
	ResetState(state *model.GameState)
}
