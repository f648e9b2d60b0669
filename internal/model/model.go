package model

// Event is a single timed entry on one calendar. Start times are quantized
// to 15 minutes; Duration is always a positive multiple of 15. An event
// never spans midnight in storage: gestures that cross it are normalized
// before commit (see internal/grid).
type Event struct {
	ID          string `json:"id"`
	CalendarID  string `json:"calendarId"`
	Title       string `json:"title"`
	StartHour   int    `json:"startHour"`   // 0..23
	StartMinute int    `json:"startMinute"` // 0, 15, 30, 45
	Duration    int    `json:"duration"`    // minutes, >= 15, multiple of 15
	Color       int    `json:"color"`       // palette index
}

// DefaultTitle is assigned to newly created events and restored when a
// title edit ends up empty.
const DefaultTitle = "New Event"

// PaletteSize is the number of entries in the fixed event color palette.
// Color indexes are stored as small ints and resolved to terminal colors
// by the TUI theme.
const PaletteSize = 8

// StartMinutes returns the event start as minutes from midnight.
func (e Event) StartMinutes() int {
	return e.StartHour*60 + e.StartMinute
}

// EndMinutes returns the (exclusive) event end as minutes from midnight.
// It may exceed 1440; callers that care about wrap semantics resolve that
// themselves.
func (e Event) EndMinutes() int {
	return e.StartMinutes() + e.Duration
}

// SetStartMinutes sets StartHour/StartMinute from minutes-from-midnight,
// normalizing into [0,1440).
func (e *Event) SetStartMinutes(total int) {
	total %= 24 * 60
	if total < 0 {
		total += 24 * 60
	}
	e.StartHour = total / 60
	e.StartMinute = total % 60
}

// Calendar owns a collection of events exclusively. Collection order is
// irrelevant; events are identified by id.
type Calendar struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Events []Event `json:"events"`
}

// FindEvent returns a pointer into the calendar's event slice, or nil.
func (c *Calendar) FindEvent(id string) *Event {
	for i := range c.Events {
		if c.Events[i].ID == id {
			return &c.Events[i]
		}
	}
	return nil
}

// CalendarSet is the persisted document shape.
type CalendarSet struct {
	Calendars []Calendar `json:"calendars"`
}

// FindCalendar returns a pointer into the set, or nil.
func (s *CalendarSet) FindCalendar(id string) *Calendar {
	for i := range s.Calendars {
		if s.Calendars[i].ID == id {
			return &s.Calendars[i]
		}
	}
	return nil
}
