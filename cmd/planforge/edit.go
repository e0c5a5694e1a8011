package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/tui/wizard"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an existing plan",
	Long: `Open the plan wizard in edit mode for an existing record.

Edits are held in memory and persist only when the plan is saved. Edit
sessions never write drafts.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
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

	result, err := wizard.Run(rt.cfg, plan.ModeEdit, id, rt.kv, rt.kv, rt.saver)
	if err != nil {
		return err
	}
	if result.Cancelled {
		fmt.Println("Cancelled. No changes were saved.")
		return nil
	}
	fmt.Printf("Plan #%d updated.\n", result.SavedID)
	return nil
}

func parsePlanID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid plan id %q", arg)
	}
	return id, nil
}
