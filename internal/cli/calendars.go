package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newCalendarsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendars",
		Short: "Calendar commands",
	}
	cmd.AddCommand(newCalendarsListCmd(app))
	cmd.AddCommand(newCalendarsAddCmd(app))
	cmd.AddCommand(newCalendarsRenameCmd(app))
	cmd.AddCommand(newCalendarsRemoveCmd(app))
	return cmd
}

func newCalendarsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadSet(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cals, err := s.QueryCalendars(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, cals)
		},
	}
	return cmd
}

func newCalendarsAddCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadSet(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cal, err := s.CreateCalendar(cmd.Context(), strings.TrimSpace(name))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, cal)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Calendar name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCalendarsRenameCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <calendar>",
		Short: "Rename a calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, s, err := loadSet(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cal, err := resolveCalendar(set, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.RenameCalendar(cmd.Context(), cal.ID, strings.TrimSpace(name)); err != nil {
				return writeErr(cmd, err)
			}
			cal.Name = strings.TrimSpace(name)
			return writeOut(cmd, app, *cal)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New calendar name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCalendarsRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <calendar>",
		Short: "Remove a calendar and its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, s, err := loadSet(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cal, err := resolveCalendar(set, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.RemoveCalendar(cmd.Context(), cal.ID); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"removed": cal.ID})
		},
	}
	return cmd
}
