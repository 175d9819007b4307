package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wiselyspent/backend/internal/calculator"
	"github.com/wiselyspent/backend/pkg/logging"
)

type rootOptions struct {
	snapshotPath string
	logLevel     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "wiselyctl",
		Short: "Wisely Spent balance calculator",
		Long:  "Compute balances, net positions and settlement plans from a snapshot file.",
		PersistentPreRun: func(*cobra.Command, []string) {
			logging.Configure(opts.logLevel, "text")
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.snapshotPath, "snapshot", "s", envOr("WISELYSPENT_SNAPSHOT", "snapshot.json"), "Snapshot file (JSON)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "Log level")

	cmd.AddCommand(
		newBalanceCmd(opts),
		newNetCmd(opts),
		newPlanCmd(opts),
		newSplitCmd(),
	)
	return cmd
}

// scopeFlags adds the mutually exclusive --group and --personal filters.
type scopeFlags struct {
	group    string
	personal bool
}

func (f *scopeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.group, "group", "g", "", "Only count activity in this group")
	cmd.Flags().BoolVarP(&f.personal, "personal", "p", false, "Only count activity outside any group")
	cmd.MarkFlagsMutuallyExclusive("group", "personal")
}

func (f *scopeFlags) scope() calculator.Scope {
	switch {
	case f.group != "":
		return calculator.GroupScope(f.group)
	case f.personal:
		return calculator.PersonalScope()
	default:
		return calculator.AllScope()
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var errSameUser = errors.New("the two users must differ")

func formatAmount(v float64) string {
	r := calculator.RoundCents(v)
	if r == 0 {
		r = 0 // no "-0.00"
	}
	return fmt.Sprintf("%.2f", r)
}
