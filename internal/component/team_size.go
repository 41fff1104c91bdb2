package component

import (
	"sync"

	"matchenv/internal/model"
)

const DynamicTeamSizeSetterName = "dynamic_team_size"

// DynamicTeamSizeSetter decorates a state setter so the roster can change
// between episodes. SetTeamSize must be called before each reset is
// delegated to the underlying simulation.
type DynamicTeamSizeSetter struct {
	mu     sync.Mutex
	inner  StateSetter
	blue   int
	orange int
}

func NewDynamicTeamSizeSetter(inner StateSetter) *DynamicTeamSizeSetter {
	return &DynamicTeamSizeSetter{inner: inner, blue: 1}
}

func (s *DynamicTeamSizeSetter) Name() string { return DynamicTeamSizeSetterName }

// SetTeamSize fixes the roster for the next episode only.
func (s *DynamicTeamSizeSetter) SetTeamSize(blue, orange int) {
	s.mu.Lock()
	s.blue = blue
	s.orange = orange
	s.mu.Unlock()
}

// TeamSize reports the roster most recently requested.
func (s *DynamicTeamSizeSetter) TeamSize() (blue, orange int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blue, s.orange
}

// ResetState rebuilds the player roster to the requested sizes, then lets
// the wrapped setter place everything.
func (s *DynamicTeamSizeSetter) ResetState(state *model.GameState) {
	s.mu.Lock()
	blue, orange := s.blue, s.orange
	s.mu.Unlock()

	players := make([]model.PlayerCar, 0, blue+orange)
	for i := 0; i < blue; i++ {
		players = append(players, model.PlayerCar{ID: i, Team: model.BlueTeam})
	}
	for i := 0; i < orange; i++ {
		players = append(players, model.PlayerCar{ID: blue + i, Team: model.OrangeTeam})
	}
	state.Players = players

	s.inner.ResetState(state)
}

// Inner exposes the wrapped setter.
func (s *DynamicTeamSizeSetter) Inner() StateSetter {
	return s.inner
}
