// Package layout assigns horizontal columns to temporally-overlapping
// events so they render side by side without collision.
//
// Overlap is not transitive, so events are first grouped into regions
// (connected components of the overlap relation) and columns are assigned
// per region with a greedy interval coloring. A bias map of prior columns
// keeps the arrangement visually stable across a drag/drop cycle.
package layout

import (
	"sort"

	"dayplan/internal/model"
)

// Placement is the computed horizontal slot for one event.
type Placement struct {
	Column  int
	Columns int // total columns in the event's region
	// WidthPct is the percentage of the grid width one column takes,
	// already shrunk to leave a gap between adjacent columns.
	WidthPct float64
	// Floating marks the actively-dragged event: rendered full width,
	// left aligned, above the grid, outside any region.
	Floating bool
}

// Options tune one layout computation.
type Options struct {
	// Bias maps event id -> prior column. Events keep their prior column
	// when doing so causes no collision.
	Bias map[string]int
	// DraggedID is excluded from every other event's region and floats.
	DraggedID string
	// PreferRight contains ids (typically the just-dropped event) placed
	// right-to-left instead of left-to-right, so events that did not move
	// are not reshuffled.
	PreferRight map[string]bool
}

// Overlaps reports whether two events share any time. Abutting events
// (a ends exactly when b starts) do not overlap; events with equal start
// times always do.
func Overlaps(a, b model.Event) bool {
	return a.StartMinutes() < b.EndMinutes() && b.StartMinutes() < a.EndMinutes()
}

// FindOverlapRegion returns the transitive closure of the overlap relation
// starting from ev: every event reachable through a chain of pairwise
// overlaps shares column space with it.
func FindOverlapRegion(ev model.Event, all []model.Event) []model.Event {
	region := []model.Event{ev}
	in := map[string]bool{ev.ID: true}

	for {
		grew := false
		for _, cand := range all {
			if in[cand.ID] {
				continue
			}
			for _, member := range region {
				if Overlaps(cand, member) {
					region = append(region, cand)
					in[cand.ID] = true
					grew = true
					break
				}
			}
		}
		if !grew {
			return region
		}
	}
}

// MaxSimultaneous returns the largest number of region events alive at any
// single instant, scanning the start/end boundaries of the region.
func MaxSimultaneous(region []model.Event) int {
	max := 0
	for _, e := range region {
		for _, instant := range [2]int{e.StartMinutes(), e.EndMinutes()} {
			n := 0
			for _, other := range region {
				if other.StartMinutes() <= instant && instant < other.EndMinutes() {
					n++
				}
			}
			if n > max {
				max = n
			}
		}
	}
	return max
}

// ColumnWidthPct is the rendered width of one column in a region with
// count columns: an even split, shrunk 0.3% per extra column (floored at
// 97% of the base) to leave a visible gap between neighbors.
func ColumnWidthPct(count int) float64 {
	if count < 1 {
		count = 1
	}
	base := 100.0 / float64(count)
	shrink := 1 - 0.003*float64(count-1)
	if shrink < 0.97 {
		shrink = 0.97
	}
	return base * shrink
}

// AssignColumns colors a region greedily. Events carrying a bias are
// placed first (ascending bias), then the rest by start time, with id as
// the deterministic tie break. Each event lands on its bias column when
// that causes no collision, otherwise on the first free column (or, for
// PreferRight ids, the last free column).
func AssignColumns(region []model.Event, opts Options) map[string]int {
	evs := make([]model.Event, len(region))
	copy(evs, region)

	biasOf := func(e model.Event) (int, bool) {
		// A just-dropped event forfeits its pre-drag column: it is placed
		// rightmost instead, as if it had no prior home.
		if opts.Bias == nil || opts.PreferRight[e.ID] {
			return 0, false
		}
		c, ok := opts.Bias[e.ID]
		return c, ok
	}

	sort.SliceStable(evs, func(i, j int) bool {
		bi, iok := biasOf(evs[i])
		bj, jok := biasOf(evs[j])
		if iok != jok {
			return iok // biased events first
		}
		if iok && bi != bj {
			return bi < bj
		}
		if si, sj := evs[i].StartMinutes(), evs[j].StartMinutes(); si != sj {
			return si < sj
		}
		return evs[i].ID < evs[j].ID
	})

	// columns[c] holds the events already occupying column c.
	var columns [][]model.Event
	fits := func(c int, e model.Event) bool {
		if c >= len(columns) {
			return true
		}
		for _, occ := range columns[c] {
			if Overlaps(occ, e) {
				return false
			}
		}
		return true
	}
	place := func(c int, e model.Event) {
		for c >= len(columns) {
			columns = append(columns, nil)
		}
		columns[c] = append(columns[c], e)
	}

	out := make(map[string]int, len(evs))
	for _, e := range evs {
		if b, ok := biasOf(e); ok && b >= 0 && fits(b, e) {
			place(b, e)
			out[e.ID] = b
			continue
		}
		if opts.PreferRight[e.ID] && len(columns) > 0 {
			placed := false
			for c := len(columns) - 1; c >= 0; c-- {
				if fits(c, e) {
					place(c, e)
					out[e.ID] = c
					placed = true
					break
				}
			}
			if !placed {
				c := len(columns)
				place(c, e)
				out[e.ID] = c
			}
			continue
		}
		for c := 0; ; c++ {
			if fits(c, e) {
				place(c, e)
				out[e.ID] = c
				break
			}
		}
	}
	return out
}

// Compute lays out the whole event set: regions are discovered, columns
// assigned, and widths derived. The dragged event (if any) floats and is
// invisible to everyone else's region computation.
func Compute(events []model.Event, opts Options) map[string]Placement {
	out := make(map[string]Placement, len(events))

	visible := make([]model.Event, 0, len(events))
	for _, e := range events {
		if e.ID == opts.DraggedID {
			out[e.ID] = Placement{Column: 0, Columns: 1, WidthPct: 100, Floating: true}
			continue
		}
		visible = append(visible, e)
	}

	done := map[string]bool{}
	for _, e := range visible {
		if done[e.ID] {
			continue
		}
		region := FindOverlapRegion(e, visible)
		cols := AssignColumns(region, opts)

		count := 0
		for _, c := range cols {
			if c+1 > count {
				count = c + 1
			}
		}
		width := ColumnWidthPct(count)
		for id, c := range cols {
			out[id] = Placement{Column: c, Columns: count, WidthPct: width}
			done[id] = true
		}
	}
	return out
}
