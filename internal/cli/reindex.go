package cli

import (
	"github.com/spf13/cobra"
)

func newReindexCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the SQLite query index from the document store",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, s, err := loadSet(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Reindex(cmd.Context(), set); err != nil {
				return writeErr(cmd, err)
			}
			events := 0
			for _, cal := range set.Calendars {
				events += len(cal.Events)
			}
			return writeOut(cmd, app, map[string]any{
				"calendars": len(set.Calendars),
				"events":    events,
			})
		},
	}
	return cmd
}
