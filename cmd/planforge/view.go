package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/tui/wizard"
)

var viewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Inspect a plan without editing it",
	Long: `Open the plan wizard in read-only view mode.

All sections are browsable regardless of validity. Press 'e' inside the
wizard to switch to edit mode in place, or 's' for a rendered summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func runView(cmd *cobra.Command, args []string) error {
	id, err := parsePlanID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.cleanup()

	result, err := wizard.Run(rt.cfg, plan.ModeView, id, rt.kv, rt.kv, rt.saver)
	if err != nil {
		return err
	}
	if result.SavedID != 0 {
		// The session was switched to edit mode and saved.
		fmt.Printf("Plan #%d updated.\n", result.SavedID)
	}
	return nil
}
