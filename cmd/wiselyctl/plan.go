package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wiselyspent/backend/internal/calculator"
)

func newPlanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <current> <target>",
		Short: "Payments that settle what current owes target",
		Long: "Print the payments current would make to clear every negative balance with target, " +
			"one per context (personal and each shared group). Nothing is written.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, target := args[0], args[1]
			if current == target {
				return errSameUser
			}
			snap, err := loadSnapshot(opts.snapshotPath)
			if err != nil {
				return err
			}

			groupNames := make(map[string]string, len(snap.groups))
			for _, g := range snap.groups {
				groupNames[g.ID] = g.Name
			}

			plan := calculator.PlanSettlement(current, target, snap.groups, snap.expenses, snap.payments)
			out := cmd.OutOrStdout()
			if plan.Empty() {
				fmt.Fprintf(out, "%s owes %s nothing\n", snap.name(current), snap.name(target))
				return nil
			}
			for _, p := range plan.Payments {
				where := "personal"
				if p.GroupID != "" {
					name, ok := groupNames[p.GroupID]
					if !ok || name == "" {
						name = p.GroupID
					}
					where = "group " + name
				}
				fmt.Fprintf(out, "pay %s %s (%s)\n", snap.name(p.PayeeID), formatAmount(p.Amount), where)
			}
			fmt.Fprintf(out, "total %s\n", formatAmount(plan.Total))
			return nil
		},
	}
}
