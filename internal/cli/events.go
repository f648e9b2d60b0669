package cli

import (
	"fmt"
	"strings"

	"dayplan/internal/grid"
	"dayplan/internal/model"
	"dayplan/internal/store"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Event commands",
	}
	cmd.AddCommand(newEventsListCmd(app))
	cmd.AddCommand(newEventsAddCmd(app))
	cmd.AddCommand(newEventsRemoveCmd(app))
	return cmd
}

func newEventsListCmd(app *App) *cobra.Command {
	var calendar string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events, ordered by start time",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, s, err := loadSet(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			calendarID := ""
			if calendar != "" {
				cal, err := resolveCalendar(set, calendar)
				if err != nil {
					return writeErr(cmd, err)
				}
				calendarID = cal.ID
			}
			evs, err := s.QueryEvents(cmd.Context(), calendarID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, evs)
		},
	}

	cmd.Flags().StringVar(&calendar, "calendar", "", "Calendar id or name (default: all calendars)")
	return cmd
}

func newEventsAddCmd(app *App) *cobra.Command {
	var (
		calendar string
		title    string
		start    string
		duration int
		color    int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, s, err := loadSet(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cal, err := resolveCalendar(set, calendar)
			if err != nil {
				return writeErr(cmd, err)
			}
			hour, minute, err := parseClock(start)
			if err != nil {
				return writeErr(cmd, err)
			}
			if color < 0 || color >= model.PaletteSize {
				return writeErr(cmd, fmt.Errorf("color must be in 0..%d", model.PaletteSize-1))
			}
			id, err := store.NewEventID()
			if err != nil {
				return writeErr(cmd, err)
			}
			ev := model.Event{
				ID:         id,
				CalendarID: cal.ID,
				Title:      strings.TrimSpace(title),
				Duration:   grid.ClampDuration(duration),
				Color:      color,
			}
			ev.SetStartMinutes(grid.RoundMinutes(hour*60 + minute))
			if ev.Title == "" {
				ev.Title = model.DefaultTitle
			}
			if err := s.Commit(cal.ID, []model.Event{ev}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, ev)
		},
	}

	cmd.Flags().StringVar(&calendar, "calendar", "", "Calendar id or name")
	cmd.Flags().StringVar(&title, "title", "", "Event title")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().IntVar(&duration, "duration", 60, "Duration in minutes")
	cmd.Flags().IntVar(&color, "color", 0, "Palette color index")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newEventsRemoveCmd(app *App) *cobra.Command {
	var calendar string

	cmd := &cobra.Command{
		Use:   "remove <event-id>...",
		Short: "Remove events",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, s, err := loadSet(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cal, err := resolveCalendar(set, calendar)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Remove(cal.ID, args); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"removed": args})
		},
	}

	cmd.Flags().StringVar(&calendar, "calendar", "", "Calendar id or name")
	return cmd
}

func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%d %d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return hour, minute, nil
}
