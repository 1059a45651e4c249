package cli

import (
	"time"

	"callsheet-cli/internal/model"
	"callsheet-cli/internal/mutate"
	"callsheet-cli/internal/tree"

	"github.com/spf13/cobra"
)

func newNodesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Create, inspect, and restructure nodes",
	}
	cmd.AddCommand(newNodesCreateCmd(app))
	cmd.AddCommand(newNodesShowCmd(app))
	cmd.AddCommand(newNodesRenameCmd(app))
	cmd.AddCommand(newNodesDeleteCmd(app))
	cmd.AddCommand(newNodesMoveCmd(app))
	return cmd
}

func newNodesCreateCmd(app *App) *cobra.Command {
	var nodeType string
	var parentID string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			bp, warn := s.LoadBlueprint()
			if warn != nil {
				cmd.PrintErrln(warn.Error())
			}

			n, err := mutate.CreateNode(db, bp, nodeType, args[0], parentID, time.Now().UTC())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			if _, err := s.AppendEvent("node.created", n.ID, n); err != nil {
				return writeErr(cmd, err)
			}
			app.markMutated()
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}

	cmd.Flags().StringVar(&nodeType, "type", "task", "Node type (per the workspace blueprint)")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent node id (empty: create a root node)")
	return cmd
}

func newNodesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <node-id>",
		Short: "Show a node with its children grouped by type",
		Args:  cobra.ExactArgs(1),
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
			n, ok := m.Node(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("node", args[0]))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"node":     n,
					"children": tree.GroupedChildren(m, bp, n.ID),
				},
			})
		},
	}
}

func newNodesRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <node-id> <name>",
		Short: "Rename a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := mutate.RenameNode(db, args[0], args[1], time.Now().UTC()); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			cmdPayload := model.Command{Type: model.CommandRenameNode, NodeID: args[0], Name: args[1]}
			if _, err := s.AppendEvent("node.renamed", args[0], cmdPayload); err != nil {
				return writeErr(cmd, err)
			}
			app.markMutated()
			n, _ := db.FindNode(args[0])
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}
}

func newNodesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <node-id>",
		Short: "Delete a node and its whole subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			before := len(db.Nodes)
			if err := mutate.DeleteNode(db, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			cmdPayload := model.Command{Type: model.CommandDeleteNode, NodeID: args[0]}
			if _, err := s.AppendEvent("node.deleted", args[0], cmdPayload); err != nil {
				return writeErr(cmd, err)
			}
			app.markMutated()
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"deleted": args[0],
					"removed": before - len(db.Nodes),
				},
			})
		},
	}
}
