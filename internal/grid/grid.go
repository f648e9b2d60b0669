// Package grid holds the pure pixel<->time math for the day grid.
//
// The visible grid starts at 05:00 and runs to 22:59; the early hours
// 00:00-04:59 wrap to the bottom of the grid. All functions are pure and
// total over any real-valued y inside the grid's pixel range.
package grid

import "math"

const (
	// DayStartHour is the first hour rendered at the top of the grid.
	DayStartHour = 5

	// MinutesPerDay is one full wall-clock day.
	MinutesPerDay = 24 * 60

	// MainSpanMinutes is the grid content from 05:00 up to midnight.
	// Anything below it belongs to the 00:00-04:59 wrap segment.
	MainSpanMinutes = (24 - DayStartHour) * 60

	// Quantum is the snap granularity for all gestures.
	Quantum = 15

	// MinDuration is the shortest committable event.
	MinDuration = 15
)

// Metrics describes the vertical scale of a rendered grid.
type Metrics struct {
	SlotHeightPx   float64 // pixel height of one slot
	MinutesPerSlot int     // wall-clock minutes per slot (usually 60)
}

// PixelToTime converts a y offset from the top of the grid into a
// quantized wall-clock (hour, minute). Minute rounding that lands on 60
// rolls into the next hour; negative minute results roll into the
// previous hour.
func (m Metrics) PixelToTime(y float64) (hour, minute int) {
	mins := y / m.SlotHeightPx * float64(m.MinutesPerSlot)

	if mins < MainSpanMinutes {
		hour = DayStartHour + int(math.Floor(mins/60))
		minute = roundToQuantum(math.Mod(mins, 60))
	} else {
		bottom := mins - MainSpanMinutes
		hour = int(math.Floor(bottom / 60)) // 0..4
		minute = roundToQuantum(math.Mod(bottom, 60))
	}

	if minute >= 60 {
		hour = (hour + 1) % 24
		minute -= 60
	}
	if minute < 0 {
		hour = (hour - 1 + 24) % 24
		minute += 60
	}
	return hour, minute
}

// TimeToTop is the inverse mapping used for rendering. Hours >= 5 map
// directly; hours 0-4 map past the main span.
func (m Metrics) TimeToTop(hour, minute int) float64 {
	var mins int
	if hour >= DayStartHour {
		mins = (hour-DayStartHour)*60 + minute
	} else {
		mins = MainSpanMinutes + hour*60 + minute
	}
	return float64(mins) / float64(m.MinutesPerSlot) * m.SlotHeightPx
}

// GridHeightPx is the total pixel height of the 24h grid.
func (m Metrics) GridHeightPx() float64 {
	return float64(MinutesPerDay) / float64(m.MinutesPerSlot) * m.SlotHeightPx
}

// PixelsToMinutes converts a vertical pixel delta into minutes (unrounded
// truncation toward zero; callers quantize the resulting duration).
func (m Metrics) PixelsToMinutes(dy float64) int {
	return int(dy / m.SlotHeightPx * float64(m.MinutesPerSlot))
}

func roundToQuantum(minute float64) int {
	return int(math.Round(minute/Quantum)) * Quantum
}

// RoundMinutes snaps a minute count to the nearest multiple of the
// 15-minute quantum. Values already on the quantum are unchanged.
func RoundMinutes(minutes int) int {
	q := float64(minutes) / Quantum
	return int(math.Round(q)) * Quantum
}

// DurationBetween applies the commit rules for a start/end pair produced
// by a gesture: a negative span means the gesture crossed midnight (+1440),
// then clamp to the minimum and snap to the quantum.
func DurationBetween(startMinutes, endMinutes int) int {
	d := endMinutes - startMinutes
	if d < 0 {
		d += MinutesPerDay
	}
	return ClampDuration(d)
}

// ClampDuration snaps to the quantum and enforces the 15-minute floor.
func ClampDuration(d int) int {
	d = RoundMinutes(d)
	if d < MinDuration {
		return MinDuration
	}
	return d
}

// NormalizeStart wraps minutes-from-midnight into [0,1440).
func NormalizeStart(total int) int {
	total %= MinutesPerDay
	if total < 0 {
		total += MinutesPerDay
	}
	return total
}
