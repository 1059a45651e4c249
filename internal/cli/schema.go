package cli

import (
	"callsheet-cli/internal/schema"

	"github.com/spf13/cobra"
)

func newSchemaCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the workspace blueprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			bp, warn := s.LoadBlueprint()
			if warn != nil {
				cmd.PrintErrln(warn.Error())
			}
			return writeOut(cmd, app, map[string]any{"data": bp})
		},
	}
	cmd.AddCommand(newSchemaCheckCmd(app))
	return cmd
}

// schema check answers one nesting question without touching the tree.
func newSchemaCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check <parent-type> <child-type>",
		Short: "Check whether a child type may nest under a parent type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			bp, warn := s.LoadBlueprint()
			if warn != nil {
				cmd.PrintErrln(warn.Error())
			}
			allowed := bp.AllowedChildren(args[0])
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"parentType":      args[0],
					"childType":       args[1],
					"accepted":        bp.AcceptsChildType(args[0], args[1]),
					"allowedChildren": allowed,
					"unconstrained":   len(allowed) == 0,
					"wildcard":        hasWildcard(allowed),
				},
			})
		},
	}
}

func hasWildcard(allowed []string) bool {
	for _, a := range allowed {
		if schema.IsWildcard(a) {
			return true
		}
	}
	return false
}
