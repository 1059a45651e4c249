package cli

import (
	"callsheet-cli/internal/publish"
	"callsheet-cli/internal/tree"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var to string
	var overwrite bool
	var showIDs bool
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "publish [node-id]",
		Short: "Export a subtree (or every root) as markdown files",
		Args:  cobra.MaximumNArgs(1),
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

			opt := publish.WriteOptions{
				Overwrite: overwrite,
				Render:    publish.RenderOptions{ShowIDs: showIDs, MaxDepth: maxDepth},
			}
			var res publish.WriteResult
			if len(args) == 1 {
				res, err = publish.WriteNode(m, bp, args[0], to, opt)
			} else {
				res, err = publish.WriteAll(m, bp, to, opt)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Output directory (required)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Include node ids in the export")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Limit export depth (0: unlimited)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
