// Package ics renders a calendar's events as an iCalendar document for
// interchange with other tooling.
package ics

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"dayplan/internal/model"
)

// Export writes the calendar's events as VEVENTs anchored on the given
// day. Events never span midnight in storage, so each VEVENT is
// day+start .. day+start+duration.
func Export(w io.Writer, cal model.Calendar, day time.Time) error {
	c := ical.NewCalendar()
	c.SetMethod(ical.MethodPublish)
	c.SetProductId("-//dayplan//EN")
	c.SetXWRCalName(cal.Name)

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	now := time.Now().UTC()

	for _, e := range cal.Events {
		uid := fmt.Sprintf("%s@dayplan", e.ID)
		ve := c.AddEvent(uid)
		ve.SetDtStampTime(now)
		start := midnight.Add(time.Duration(e.StartMinutes()) * time.Minute)
		ve.SetStartAt(start)
		ve.SetEndAt(start.Add(time.Duration(e.Duration) * time.Minute))
		ve.SetSummary(e.Title)
	}

	_, err := io.WriteString(w, c.Serialize())
	return err
}
