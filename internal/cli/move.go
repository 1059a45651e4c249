package cli

import (
	"errors"
	"time"

	"callsheet-cli/internal/dnd"
	"callsheet-cli/internal/mutate"
	"callsheet-cli/internal/tree"

	"github.com/spf13/cobra"
)

// newNodesMoveCmd is the scriptable counterpart of a drag gesture: it builds
// the same payload and intent a drag would, runs them through the same drop
// validation, and applies the resulting command.
func newNodesMoveCmd(app *App) *cobra.Command {
	var into string
	var before string
	var after string

	cmd := &cobra.Command{
		Use:   "move <node-id>",
		Short: "Move or reorder a node (--into | --before | --after)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent, err := moveIntent(into, before, after)
			if err != nil {
				return writeErr(cmd, err)
			}

			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			bp, warn := s.LoadBlueprint()
			if warn != nil {
				cmd.PrintErrln(warn.Error())
			}

			m := tree.Build(db.Snapshot())
			p, ok := dnd.Capture(m, args[0])
			if !ok {
				return writeErr(cmd, errNotFound("node", args[0]))
			}

			mutation, err := dnd.ValidateDrop(m, bp, p, intent)
			if err != nil {
				if reason, ok := dnd.RejectionReason(err); ok && reason == dnd.ReasonNoOp {
					return writeOut(cmd, app, map[string]any{
						"data": map[string]any{"nodeId": p.NodeID, "noop": true},
					})
				}
				return writeErr(cmd, err)
			}
			if err := mutate.Apply(db, bp, mutation, time.Now().UTC()); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			eventType := "node.moved"
			if intent.Kind != dnd.IntentMoveInto {
				eventType = "node.reordered"
			}
			if _, err := s.AppendEvent(eventType, p.NodeID, mutation); err != nil {
				return writeErr(cmd, err)
			}
			app.markMutated()
			return writeOut(cmd, app, map[string]any{"data": mutation})
		},
	}

	cmd.Flags().StringVar(&into, "into", "", "New parent node id (appends at the end of its children)")
	cmd.Flags().StringVar(&before, "before", "", "Sibling id to insert above")
	cmd.Flags().StringVar(&after, "after", "", "Sibling id to insert below")
	return cmd
}

func moveIntent(into, before, after string) (dnd.Intent, error) {
	set := 0
	for _, v := range []string{into, before, after} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return dnd.Intent{}, errors.New("exactly one of --into, --before, --after is required")
	}
	switch {
	case into != "":
		return dnd.Intent{Kind: dnd.IntentMoveInto, TargetID: into}, nil
	case before != "":
		return dnd.Intent{Kind: dnd.IntentReorderAbove, TargetID: before}, nil
	default:
		return dnd.Intent{Kind: dnd.IntentReorderBelow, TargetID: after}, nil
	}
}
