package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all plans",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.cleanup()

	plans, err := rt.kv.List(ctx)
	if err != nil {
		return fmt.Errorf("listing plans: %w", err)
	}
	if len(plans) == 0 {
		fmt.Println("No plans yet. Run 'planforge create' to make one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCODE\tPRICE\tINTERVAL\tACTIVE")
	for _, p := range plans {
		active := "no"
		if p.Active {
			active = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t$%.2f\t%s\t%s\n",
			p.ID, p.Name, p.Code, p.MonthlyPrice, p.BillingInterval, active)
	}
	return w.Flush()
}
