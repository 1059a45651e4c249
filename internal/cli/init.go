package cli

import (
	"path/filepath"
	"time"

	"callsheet-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a workspace with the starter production skeleton",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s := store.Store{Dir: dir}
			if err := s.Ensure(); err != nil {
				return writeErr(cmd, err)
			}

			db, err := s.Load()
			if err != nil {
				return writeErr(cmd, err)
			}
			seeded := false
			if len(db.Nodes) == 0 || force {
				db = store.SeedDB(time.Now().UTC())
				seeded = true
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			app.markMutated()

			// Seed an editable blueprint file next to the data. Never clobbers
			// an existing one, even with --force.
			if err := s.WriteDefaultBlueprint(); err != nil {
				return writeErr(cmd, err)
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":        dir,
					"sqlitePath": filepath.Join(dir, "index.sqlite"),
					"seeded":     seeded,
					"nodes":      len(db.Nodes),
				},
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace existing nodes with the starter skeleton")
	return cmd
}
