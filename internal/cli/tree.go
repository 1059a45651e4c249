package cli

import (
	"callsheet-cli/internal/format"
	"callsheet-cli/internal/tree"

	"github.com/spf13/cobra"
)

func newTreeCmd(app *App) *cobra.Command {
	var asJSON bool
	var showIDs bool
	var grouped bool
	var visibleOnly bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the production tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			bp, warn := s.LoadBlueprint()
			if warn != nil {
				cmd.PrintErrln(warn.Error())
			}
			m := tree.Build(db.Snapshot())

			if asJSON {
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{
						"roots": m.Roots(),
						"nodes": db.Nodes,
					},
				})
			}
			opts := format.TreeOptions{
				ShowIDs:     showIDs,
				GroupByType: grouped,
			}
			if visibleOnly {
				ui, uiWarn := s.LoadUIState()
				if uiWarn != nil {
					cmd.PrintErrln(uiWarn.Error())
				}
				opts.IsExpanded = func(id string) bool { return ui.Expanded[id] }
			}
			return format.WriteTree(cmd.OutOrStdout(), m, bp, opts)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the raw node table as JSON")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show node ids")
	cmd.Flags().BoolVar(&grouped, "group", false, "Group siblings by type, in blueprint order")
	cmd.Flags().BoolVar(&visibleOnly, "visible", false, "Print only rows expanded in the TUI (per the saved UI state)")
	return cmd
}
