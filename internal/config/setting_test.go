package config

import (
	"errors"
	"testing"
)

func TestIntSettingFixed(t *testing.T) {
	s := FixedInt(3)
	if _, ok := s.Candidates(); ok {
		t.Fatal("fixed setting must not report candidates")
	}
	if s.Materialize() != 3 {
		t.Fatalf("materialize: got %d", s.Materialize())
	}
}

func TestIntSettingCandidates(t *testing.T) {
	s, err := IntCandidates([]int{2, 5, 1})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if s.Materialize() != 5 {
		t.Fatalf("candidates must materialize to max, got %d", s.Materialize())
	}
	vs, ok := s.Candidates()
	if !ok || len(vs) != 3 {
		t.Fatalf("candidates lost: %v %v", vs, ok)
	}

	// the returned slice is a copy
	vs[0] = 99
	again, _ := s.Candidates()
	if again[0] == 99 {
		t.Fatal("candidates must not share backing storage")
	}
}

func TestEmptyCandidateSets(t *testing.T) {
	if _, err := IntCandidates(nil); !errors.Is(err, ErrEmptyCandidates) {
		t.Fatalf("expected ErrEmptyCandidates, got %v", err)
	}
	if _, err := BoolCandidates([]bool{}); !errors.Is(err, ErrEmptyCandidates) {
		t.Fatalf("expected ErrEmptyCandidates, got %v", err)
	}
}

func TestBoolSettingMaterialize(t *testing.T) {
	if FixedBool(false).Materialize() {
		t.Fatal("fixed false must materialize to false")
	}
	s, err := BoolCandidates([]bool{false, true})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if !s.Materialize() {
		t.Fatal("any candidate set must materialize to true")
	}
	only, err := BoolCandidates([]bool{false})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if !only.Materialize() {
		t.Fatal("even a false-only candidate set materializes to true")
	}
}
