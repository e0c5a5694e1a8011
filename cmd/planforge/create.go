package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/tui/wizard"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new plan",
	Long: `Open the plan wizard in create mode.

In-progress work autosaves as a draft. If a previous create session left a
draft behind, the wizard offers to restore it before anything else.`,
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.cleanup()

	result, err := wizard.Run(rt.cfg, plan.ModeCreate, 0, rt.kv, rt.kv, rt.saver)
	if err != nil {
		return err
	}
	if result.Cancelled {
		fmt.Println("Cancelled. Any in-progress draft was kept.")
		return nil
	}
	fmt.Printf("Plan #%d created.\n", result.SavedID)
	return nil
}
