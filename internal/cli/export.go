package cli

import (
	"fmt"
	"os"
	"time"

	"dayplan/internal/ics"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		calendar string
		day      string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a calendar as iCalendar (.ics)",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, _, err := loadSet(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cal, err := resolveCalendar(set, calendar)
			if err != nil {
				return writeErr(cmd, err)
			}

			anchor := time.Now()
			if day != "" {
				anchor, err = time.ParseInLocation("2006-01-02", day, time.Local)
				if err != nil {
					return writeErr(cmd, fmt.Errorf("invalid --day %q, want YYYY-MM-DD", day))
				}
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return writeErr(cmd, err)
				}
				defer f.Close()
				w = f
			}
			if err := ics.Export(w, *cal, anchor); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&calendar, "calendar", "", "Calendar id or name")
	cmd.Flags().StringVar(&day, "day", "", "Day to anchor events on (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default: stdout)")
	return cmd
}
