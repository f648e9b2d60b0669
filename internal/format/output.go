// Package format owns the CLI output contract.
package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"dayplan/internal/model"
)

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - table
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "table":
		return WriteTable(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
//
// NOTE: output stays strict JSON only; hints for humans belong in the
// table format.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteTable renders the known list shapes as aligned tables. Unknown
// values fall back to pretty JSON.
func WriteTable(w io.Writer, v any) error {
	switch vv := v.(type) {
	case []model.Calendar:
		return calendarTable(w, vv)
	case []model.Event:
		return eventTable(w, vv)
	case model.Event:
		return eventTable(w, []model.Event{vv})
	default:
		return WriteJSON(w, v, true)
	}
}

func calendarTable(w io.Writer, cals []model.Calendar) error {
	t := uitable.New()
	t.AddRow(header("ID"), header("NAME"), header("EVENTS"))
	for _, c := range cals {
		t.AddRow(c.ID, c.Name, fmt.Sprintf("%d", len(c.Events)))
	}
	_, err := fmt.Fprintln(w, t)
	return err
}

func eventTable(w io.Writer, evs []model.Event) error {
	t := uitable.New()
	t.MaxColWidth = 40
	t.AddRow(header("ID"), header("CALENDAR"), header("START"), header("DURATION"), header("COLOR"), header("TITLE"))
	for _, e := range evs {
		t.AddRow(e.ID, e.CalendarID,
			fmt.Sprintf("%02d:%02d", e.StartHour, e.StartMinute),
			fmt.Sprintf("%dm", e.Duration),
			fmt.Sprintf("%d", e.Color),
			e.Title)
	}
	_, err := fmt.Fprintln(w, t)
	return err
}

func header(s string) string {
	return color.New(color.Bold).Sprint(s)
}
