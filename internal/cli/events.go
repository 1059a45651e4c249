package cli

import (
	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List the workspace mutation log (newest last)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			events, err := s.ReadEvents()
			if err != nil {
				return writeErr(cmd, err)
			}
			total := len(events)
			if limit > 0 && total > limit {
				events = events[total-limit:]
			}
			return writeOut(cmd, app, map[string]any{
				"data": events,
				"meta": map[string]any{"total": total, "shown": len(events)},
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the newest N events (0: all)")
	return cmd
}
