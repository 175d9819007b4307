package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wiselyspent/backend/internal/calculator"
)

func newNetCmd(opts *rootOptions) *cobra.Command {
	var flags scopeFlags

	cmd := &cobra.Command{
		Use:   "net <user>",
		Short: "Overall position of one user",
		Long:  "Print a user's net balance and the balance with every counterparty. Positive means the user is owed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := args[0]
			snap, err := loadSnapshot(opts.snapshotPath)
			if err != nil {
				return err
			}

			scope := flags.scope()
			expenses := calculator.FilterExpenses(scope, snap.expenses)
			payments := calculator.FilterPayments(scope, snap.payments)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s net %s (%s)\n", snap.name(user), formatAmount(calculator.NetBalanceOf(user, expenses, payments)), scope)
			for _, other := range calculator.Counterparties(user, expenses, payments) {
				b := calculator.BalanceBetween(user, other, expenses, payments)
				if calculator.IsSettled(b) {
					continue
				}
				fmt.Fprintf(out, "  %-20s %10s\n", snap.name(other), formatAmount(b))
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
