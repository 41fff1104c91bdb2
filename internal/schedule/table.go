// Package schedule balances per-episode exposure across the candidate
// match configurations.
package schedule

import (
	"sort"

	"matchenv/internal/model"
)

// Key identifies one accounting bucket.
type Key struct {
	Opponents bool
	TeamSize  int
}

// Table tracks cumulative agent-steps per configuration. Counts only grow;
// the table is rebuilt from scratch when the simulation is reconstructed.
type Table struct {
	counts map[Key]uint64
}

// NewTable seeds a zero count for every combination of the declared
// opponents-present and team-size candidates.
func NewTable(opponents []bool, teamSizes []int) *Table {
	t := &Table{counts: make(map[Key]uint64, len(opponents)*len(teamSizes))}
	for _, present := range opponents {
		for _, size := range teamSizes {
			t.counts[Key{Opponents: present, TeamSize: size}] = 0
		}
	}
	return t
}

// Add credits n agent-steps to the bucket for key, creating it at zero if
// the key was never declared.
func (t *Table) Add(key Key, n uint64) {
	t.counts[key] += n
}

// Count returns the bucket for key, lazily creating it at zero.
func (t *Table) Count(key Key) uint64 {
	count, ok := t.counts[key]
	if !ok {
		t.counts[key] = 0
	}
	return count
}

// HasBuckets reports whether any bucket exists under the given
// opponents-present value.
func (t *Table) HasBuckets(opponents bool) bool {
	for key := range t.counts {
		if key.Opponents == opponents {
			return true
		}
	}
	return false
}

// Sum totals every team-size bucket under the given opponents-present value.
func (t *Table) Sum(opponents bool) uint64 {
	var total uint64
	for key, count := range t.counts {
		if key.Opponents == opponents {
			total += count
		}
	}
	return total
}

// Keys returns every bucket key in deterministic order: opponents absent
// before present, then ascending team size.
func (t *Table) Keys() []Key {
	keys := make([]Key, 0, len(t.counts))
	for key := range t.counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Opponents != keys[j].Opponents {
			return !keys[i].Opponents
		}
		return keys[i].TeamSize < keys[j].TeamSize
	})
	return keys
}

// Snapshot exports the table as exposure buckets in deterministic order.
func (t *Table) Snapshot() []model.ExposureBucket {
	keys := t.Keys()
	buckets := make([]model.ExposureBucket, 0, len(keys))
	for _, key := range keys {
		buckets = append(buckets, model.ExposureBucket{
			Opponents:  key.Opponents,
			TeamSize:   key.TeamSize,
			AgentSteps: t.counts[key],
		})
	}
	return buckets
}
