package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wiselyspent/backend/internal/calculator"
)

func newBalanceCmd(opts *rootOptions) *cobra.Command {
	var flags scopeFlags

	cmd := &cobra.Command{
		Use:   "balance <user-a> <user-b>",
		Short: "Balance between two users",
		Long:  "Print the balance between two users. Positive means user-b owes user-a.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b := args[0], args[1]
			if a == b {
				return errSameUser
			}
			snap, err := loadSnapshot(opts.snapshotPath)
			if err != nil {
				return err
			}

			scope := flags.scope()
			balance := calculator.BalanceBetween(a, b,
				calculator.FilterExpenses(scope, snap.expenses),
				calculator.FilterPayments(scope, snap.payments))

			out := cmd.OutOrStdout()
			switch {
			case calculator.IsSettled(balance):
				fmt.Fprintf(out, "%s and %s are settled up (%s)\n", snap.name(a), snap.name(b), scope)
			case balance > 0:
				fmt.Fprintf(out, "%s owes %s %s (%s)\n", snap.name(b), snap.name(a), formatAmount(balance), scope)
			default:
				fmt.Fprintf(out, "%s owes %s %s (%s)\n", snap.name(a), snap.name(b), formatAmount(-balance), scope)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
