package cli

import (
	"errors"

	"callsheet-cli/internal/tree"

	"github.com/spf13/cobra"
)

var errDoctorIssuesFound = errors.New("doctor: integrity problems found")

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate tree structure and blueprint conformance",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			bp, warn := s.LoadBlueprint()
			if warn != nil {
				cmd.PrintErrln(warn.Error())
			}

			snapshot := db.Snapshot()
			problems := tree.CheckIntegrity(snapshot)

			// Schema conformance is reported, not enforced: legacy data may
			// predate the blueprint and still needs to load.
			var violations []map[string]string
			for _, n := range snapshot {
				if n.ParentID == nil {
					continue
				}
				parent, ok := db.FindNode(*n.ParentID)
				if !ok {
					continue // already a structural problem
				}
				if !bp.AcceptsChildType(parent.Type, n.Type) {
					violations = append(violations, map[string]string{
						"nodeId":     n.ID,
						"nodeType":   n.Type,
						"parentId":   parent.ID,
						"parentType": parent.Type,
					})
				}
			}

			if err := writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"problems":         problems,
					"schemaViolations": violations,
				},
				"meta": map[string]any{
					"nodes":     len(snapshot),
					"hasErrors": len(problems) > 0,
				},
			}); err != nil {
				return err
			}

			if fail && len(problems) > 0 {
				return errDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if structural problems are found")
	return cmd
}
