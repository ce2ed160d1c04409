// Package analytics derives views from the timer history. Everything
// here is a pure function recomputed on every call; nothing is cached
// or persisted.
package analytics

import (
	"sort"

	"studyplanner/internal/model"
)

// LabelTotal is the accumulated study minutes for one label.
type LabelTotal struct {
	Label   string
	Minutes int
}

// Distribution groups study segments by label and sums their minutes,
// sorted by minutes descending (ties broken by label so the order is
// stable). Break segments are excluded: they carry no subject.
func Distribution(entries []model.TimerHistoryEntry) []LabelTotal {
	totals := make(map[string]int)
	for _, e := range entries {
		if e.Type != model.SegmentStudy {
			continue
		}
		totals[e.Label] += e.Minutes
	}

	out := make([]LabelTotal, 0, len(totals))
	for label, minutes := range totals {
		out = append(out, LabelTotal{Label: label, Minutes: minutes})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// MostFocused returns the label with the highest total, if any.
func MostFocused(entries []model.TimerHistoryEntry) (LabelTotal, bool) {
	dist := Distribution(entries)
	if len(dist) == 0 {
		return LabelTotal{}, false
	}
	return dist[0], true
}

// NeedsAttention returns the label with the lowest total, but only when
// more than one label exists; with a single label there is nothing to
// compare against.
func NeedsAttention(entries []model.TimerHistoryEntry) (LabelTotal, bool) {
	dist := Distribution(entries)
	if len(dist) < 2 {
		return LabelTotal{}, false
	}
	return dist[len(dist)-1], true
}
