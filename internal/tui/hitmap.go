package tui

import (
	"math"
	"sort"

	"dayplan/internal/gesture"
	"dayplan/internal/grid"
	"dayplan/internal/model"
)

// eventRect is an event's footprint in grid cells, derived from the current
// layout pass. Both hit testing and rendering use the same rects so clicks
// always land where the block is drawn.
type eventRect struct {
	ev       model.Event
	topRow   int
	rows     int
	x0       int
	w        int
	floating bool
}

func (r eventRect) contains(row, cx int) bool {
	return row >= r.topRow && row < r.topRow+r.rows && cx >= r.x0 && cx < r.x0+r.w
}

func (m appModel) eventRects() []eventRect {
	placements := m.machine.Layout()
	events := m.machine.Events()
	cw := m.width - gutterWidth
	if cw < 1 {
		cw = 1
	}
	ppr := m.pxPerRow()

	rects := make([]eventRect, 0, len(events))
	for _, ev := range events {
		p, ok := placements[ev.ID]
		if !ok {
			continue
		}
		top := m.metrics.TimeToTop(ev.StartHour, ev.StartMinute)
		r := eventRect{
			ev:       ev,
			topRow:   int(math.Round(top / ppr)),
			rows:     (ev.Duration + grid.Quantum - 1) / grid.Quantum,
			floating: p.Floating,
		}
		if r.rows < 1 {
			r.rows = 1
		}
		if r.topRow+r.rows > totalRows {
			r.rows = totalRows - r.topRow
		}
		if p.Floating {
			r.x0 = gutterWidth
			r.w = cw
		} else {
			colW := cw / p.Columns
			if colW < 1 {
				colW = 1
			}
			r.x0 = gutterWidth + p.Column*colW
			r.w = colW
			if p.Column == p.Columns-1 {
				r.w = cw - p.Column*colW
			}
		}
		rects = append(rects, r)
	}

	// Stable paint order: calm blocks first, the floating block on top.
	sort.SliceStable(rects, func(i, j int) bool {
		if rects[i].floating != rects[j].floating {
			return !rects[i].floating
		}
		if rects[i].x0 != rects[j].x0 {
			return rects[i].x0 < rects[j].x0
		}
		return rects[i].ev.ID < rects[j].ev.ID
	})
	return rects
}

func (m appModel) hitTest(cx, cy int) gesture.Hit {
	if cy < headerRows || cy >= headerRows+m.gridRows() || cx < gutterWidth {
		return gesture.Hit{Chrome: true}
	}
	row := cy - headerRows + m.scrollRows
	if row >= totalRows {
		return gesture.Hit{Chrome: true}
	}

	rects := m.eventRects()
	// Topmost block wins, so scan in reverse paint order.
	for i := len(rects) - 1; i >= 0; i-- {
		r := rects[i]
		if !r.contains(row, cx) {
			continue
		}
		hit := gesture.Hit{EventID: r.ev.ID}
		if row == r.topRow {
			hit.Title = true
		}
		if r.rows >= 2 && row == r.topRow+r.rows-1 {
			hit.ResizeHandle = true
			hit.Title = false
		}
		return hit
	}
	return gesture.Hit{}
}
