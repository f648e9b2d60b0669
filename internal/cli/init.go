package cli

import (
	"path/filepath"

	"dayplan/internal/config"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var calendarName string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize local storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, s, err := loadSet(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			if len(set.Calendars) == 0 {
				if _, err := s.CreateCalendar(cmd.Context(), calendarName); err != nil {
					return writeErr(cmd, err)
				}
				set, err = s.Load(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			cfg, err := config.Load(s.Dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			if cfg.DefaultCalendar == "" && len(set.Calendars) > 0 {
				cfg.DefaultCalendar = set.Calendars[0].ID
				if err := config.Save(s.Dir, cfg); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"dir":        s.Dir,
				"sqlitePath": filepath.Join(s.Dir, "index.sqlite"),
				"configPath": config.Path(s.Dir),
				"calendars":  len(set.Calendars),
			})
		},
	}

	cmd.Flags().StringVar(&calendarName, "name", "Personal", "Name for the initial calendar")
	return cmd
}
