package cli

import (
	"fmt"
	"os"
	"strings"

	"dayplan/internal/config"
	"dayplan/internal/format"
	"dayplan/internal/log"
	"dayplan/internal/model"
	"dayplan/internal/store"
	"dayplan/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "dayplan",
		Short:        "Day planner (local-first) CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive day view
  dayplan

  # Scriptable commands
  dayplan calendars list
  dayplan events list --calendar work

  # Export a calendar to iCalendar
  dayplan export --calendar work --out work.ics
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("DAYPLAN_DIR", ""), "Path to store dir (default: nearest .dayplan, else ~/.dayplan)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DAYPLAN_FORMAT", "json"), "Output format (json|table)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newCalendarsCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newReindexCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	set, s, err := loadSet(cmd, app)
	if err != nil {
		return err
	}
	cfg, err := config.Load(s.Dir)
	if err != nil {
		return err
	}
	log.Debug("starting tui", "dir", s.Dir, "calendars", len(set.Calendars))
	return tui.Run(s, set, cfg)
}

func loadSet(cmd *cobra.Command, app *App) (*model.CalendarSet, store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return nil, store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}

	s := store.Store{Dir: dir}
	set, err := s.Load(cmd.Context())
	if err != nil {
		return nil, s, err
	}
	return set, s, nil
}

// resolveCalendar accepts a calendar id or a (case-insensitive) name.
func resolveCalendar(set *model.CalendarSet, ref string) (*model.Calendar, error) {
	if ref == "" {
		if len(set.Calendars) == 1 {
			return &set.Calendars[0], nil
		}
		return nil, fmt.Errorf("no calendar selected; pass --calendar (have %d calendars)", len(set.Calendars))
	}
	if cal := set.FindCalendar(ref); cal != nil {
		return cal, nil
	}
	for i := range set.Calendars {
		if strings.EqualFold(set.Calendars[i].Name, ref) {
			return &set.Calendars[i], nil
		}
	}
	return nil, errNotFound("calendar", ref)
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
