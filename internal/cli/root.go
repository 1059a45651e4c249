package cli

import (
	"fmt"
	"os"
	"strings"

	"callsheet-cli/internal/format"
	"callsheet-cli/internal/gitrepo"
	"callsheet-cli/internal/store"
	"callsheet-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool

	// mutated marks that this invocation changed workspace state, for the
	// optional git auto-commit in PersistentPostRunE.
	mutated bool
}

func (app *App) markMutated() { app.mutated = true }

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "callsheet",
		Short:        "Production tree editor (local-first) CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  callsheet

  # Scriptable commands
  callsheet tree

  # Move an episode under another phase
  callsheet nodes move ep-101 --into phase-season2

  # Reorder within the same parent
  callsheet nodes move ep-102 --before ep-101
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		// Keep Git-backed workspaces committed even when invoked from
		// scripts/agents. Opt-in and best-effort: a failed commit never fails
		// the command that already succeeded.
		if !app.mutated || !gitrepo.AutoCommitEnabled() {
			return nil
		}
		if _, err := gitrepo.CommitWorkspace(cmd.Context(), app.Dir, ""); err != nil {
			cmd.PrintErrln("auto-commit: " + err.Error())
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("CALLSHEET_DIR", ""), "Path to workspace dir (default: nearest .callsheet up the tree)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newNodesCmd(app))
	cmd.AddCommand(newSchemaCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))

	return cmd
}

func runTUI(app *App) error {
	db, s, err := loadDB(app)
	if err != nil {
		return err
	}
	return tui.Run(s, db)
}

func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}
	d, err := store.DefaultDir()
	if err != nil {
		return "", err
	}
	app.Dir = d
	return d, nil
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir, err := resolveDir(app)
	if err != nil {
		return nil, store.Store{}, err
	}
	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
