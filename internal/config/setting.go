package config

import (
	"errors"
	"fmt"
)

var ErrEmptyCandidates = errors.New("candidate set is empty")

// IntSetting is either a fixed integer or a candidate set sampled once per
// episode. The zero value is not valid; use FixedInt or IntCandidates.
type IntSetting struct {
	fixed      int
	candidates []int
}

func FixedInt(v int) IntSetting {
	return IntSetting{fixed: v}
}

func IntCandidates(vs []int) (IntSetting, error) {
	if len(vs) == 0 {
		return IntSetting{}, fmt.Errorf("%w: int setting", ErrEmptyCandidates)
	}
	return IntSetting{candidates: append([]int(nil), vs...)}, nil
}

// Candidates reports the declared candidate values, or false for a fixed
// setting.
func (s IntSetting) Candidates() ([]int, bool) {
	if s.candidates == nil {
		return nil, false
	}
	return append([]int(nil), s.candidates...), true
}

// Materialize resolves the value used to construct the simulation: the
// maximum candidate, so the engine is built with the largest possible
// roster, or the fixed value.
func (s IntSetting) Materialize() int {
	if s.candidates == nil {
		return s.fixed
	}
	max := s.candidates[0]
	for _, v := range s.candidates[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// BoolSetting is the boolean analogue of IntSetting.
type BoolSetting struct {
	fixed      bool
	candidates []bool
}

func FixedBool(v bool) BoolSetting {
	return BoolSetting{fixed: v}
}

func BoolCandidates(vs []bool) (BoolSetting, error) {
	if len(vs) == 0 {
		return BoolSetting{}, fmt.Errorf("%w: bool setting", ErrEmptyCandidates)
	}
	return BoolSetting{candidates: append([]bool(nil), vs...)}, nil
}

func (s BoolSetting) Candidates() ([]bool, bool) {
	if s.candidates == nil {
		return nil, false
	}
	return append([]bool(nil), s.candidates...), true
}

// Materialize resolves the construction value: true when any candidate set
// is declared, so the engine is built with opponents present, otherwise the
// fixed value.
func (s BoolSetting) Materialize() bool {
	if s.candidates == nil {
		return s.fixed
	}
	return true
}
