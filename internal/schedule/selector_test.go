package schedule

import "testing"

func TestFirstEpisodeSelectsRichestConfiguration(t *testing.T) {
	table := NewTable([]bool{false, true}, []int{1, 2, 3})
	cand := Candidates{Opponents: []bool{false, true}, TeamSizes: []int{1, 2, 3}}

	chosen := Select(table, cand, Key{Opponents: true, TeamSize: 3}, true)
	if !chosen.Opponents || chosen.TeamSize != 3 {
		t.Fatalf("first episode should pick opponents and max size, got %+v", chosen)
	}
}

func TestFixedSettingsKeepCurrentValue(t *testing.T) {
	table := NewTable([]bool{false}, []int{2})
	table.Add(Key{Opponents: false, TeamSize: 2}, 100)

	chosen := Select(table, Candidates{}, Key{Opponents: false, TeamSize: 2}, false)
	if chosen.Opponents || chosen.TeamSize != 2 {
		t.Fatalf("fixed settings must not change, got %+v", chosen)
	}
}

func TestOpponentsFollowLeastExposedSide(t *testing.T) {
	table := NewTable([]bool{false, true}, []int{1})
	cand := Candidates{Opponents: []bool{false, true}}

	table.Add(Key{Opponents: true, TeamSize: 1}, 50)
	chosen := Select(table, cand, Key{Opponents: true, TeamSize: 1}, false)
	if chosen.Opponents {
		t.Fatalf("expected least-exposed side false, got %+v", chosen)
	}

	table.Add(Key{Opponents: false, TeamSize: 1}, 80)
	chosen = Select(table, cand, Key{Opponents: false, TeamSize: 1}, false)
	if !chosen.Opponents {
		t.Fatalf("expected least-exposed side true, got %+v", chosen)
	}
}

func TestOpponentsTieBreaksTowardAbsent(t *testing.T) {
	table := NewTable([]bool{false, true}, []int{1})
	cand := Candidates{Opponents: []bool{false, true}}

	table.Add(Key{Opponents: false, TeamSize: 1}, 10)
	table.Add(Key{Opponents: true, TeamSize: 1}, 10)

	chosen := Select(table, cand, Key{Opponents: true, TeamSize: 1}, false)
	if chosen.Opponents {
		t.Fatalf("tie must resolve to opponents absent, got %+v", chosen)
	}
}

// The concrete balancing walk: team_size [1,2], opponents fixed false.
func TestTeamSizeBalancingScenario(t *testing.T) {
	table := NewTable([]bool{false}, []int{1, 2})
	cand := Candidates{TeamSizes: []int{1, 2}}
	active := Key{Opponents: false, TeamSize: 2}

	chosen := Select(table, cand, active, true)
	if chosen.TeamSize != 2 {
		t.Fatalf("first episode must pick max size 2, got %+v", chosen)
	}

	// 100 steps at team size 2, no opponents: +200 agent-steps.
	table.Add(chosen, 200)

	chosen = Select(table, cand, chosen, false)
	if chosen.TeamSize != 1 {
		t.Fatalf("selector must pick size 1 after (false,2)=200, got %+v", chosen)
	}

	// 50 steps at team size 1: +50 agent-steps.
	table.Add(chosen, 50)

	chosen = Select(table, cand, chosen, false)
	if chosen.TeamSize != 1 {
		t.Fatalf("selector must keep size 1 while (false,1)=50 < (false,2)=200, got %+v", chosen)
	}
}

func TestMissingBucketsForActiveValueSelectRichest(t *testing.T) {
	table := &Table{counts: map[Key]uint64{}}
	cand := Candidates{Opponents: []bool{false, true}, TeamSizes: []int{1, 2}}

	chosen := Select(table, cand, Key{Opponents: false, TeamSize: 1}, false)
	if !chosen.Opponents || chosen.TeamSize != 2 {
		t.Fatalf("empty table should fall back to richest configuration, got %+v", chosen)
	}
}

// Long-run balance: with opponents declared [false, true], the two step
// sums never drift apart by more than one episode of the smaller side.
func TestLongRunExposureBalance(t *testing.T) {
	table := NewTable([]bool{false, true}, []int{2})
	cand := Candidates{Opponents: []bool{false, true}}
	active := Key{Opponents: true, TeamSize: 2}
	first := true

	const stepsPerEpisode = 100
	for episode := 0; episode < 500; episode++ {
		active = Select(table, cand, active, first)
		first = false

		agents := uint64(active.TeamSize)
		if active.Opponents {
			agents *= 2
		}
		table.Add(active, agents*stepsPerEpisode)

		diff := int64(table.Sum(true)) - int64(table.Sum(false))
		if diff < 0 {
			diff = -diff
		}
		// one episode of the opponents side is the largest possible gap
		if diff > 2*2*stepsPerEpisode {
			t.Fatalf("episode %d: exposure drifted apart by %d", episode, diff)
		}
	}
}
