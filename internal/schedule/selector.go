package schedule

import "sort"

// Candidates is the per-episode choice domain. A nil slice means the
// setting is fixed and the current value is kept.
type Candidates struct {
	Opponents []bool
	TeamSizes []int
}

// Select picks the configuration for the next episode.
//
// On the first episode, or when the table carries no buckets for the value
// in play, the richest configuration wins (opponents present, maximum team
// size) so the simulation is built with the largest roster it will ever
// need. Afterwards the least-exposed value wins, ties resolved by the
// table's deterministic key order (opponents absent first, smallest team
// size first).
func Select(table *Table, cand Candidates, current Key, firstEpisode bool) Key {
	chosen := current

	if cand.Opponents != nil {
		if firstEpisode || !table.HasBuckets(current.Opponents) {
			chosen.Opponents = true
		} else {
			chosen.Opponents = table.Sum(false) > table.Sum(true)
		}
	}

	if cand.TeamSizes != nil {
		if firstEpisode || !table.HasBuckets(chosen.Opponents) {
			chosen.TeamSize = maxInt(cand.TeamSizes)
		} else {
			chosen.TeamSize = leastExposedSize(table, chosen.Opponents, cand.TeamSizes)
		}
	}

	return chosen
}

func leastExposedSize(table *Table, opponents bool, sizes []int) int {
	ordered := append([]int(nil), sizes...)
	sort.Ints(ordered)

	best := ordered[0]
	bestCount := table.Count(Key{Opponents: opponents, TeamSize: best})
	for _, size := range ordered[1:] {
		count := table.Count(Key{Opponents: opponents, TeamSize: size})
		if count < bestCount {
			best = size
			bestCount = count
		}
	}
	return best
}

func maxInt(vs []int) int {
	max := vs[0]
	for _, v := range vs[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
