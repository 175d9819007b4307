package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wiselyspent/backend/internal/calculator"
)

func newSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Preview how an amount would be divided",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "equal <total> <user>...",
			Short: "Divide evenly; leftover cents go to the first users",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				total, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				return printSplits(cmd, total, calculator.EqualSplit{Participants: args[1:]})
			},
		},
		&cobra.Command{
			Use:   "percentage <total> <user>=<percent>...",
			Short: "Divide by percentage",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				total, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				pairs, err := parsePairs(args[1:])
				if err != nil {
					return err
				}
				entries := make([]calculator.PercentageEntry, len(pairs))
				for i, p := range pairs {
					entries[i] = calculator.PercentageEntry{UserID: p.user, Percentage: p.value}
				}
				return printSplits(cmd, total, calculator.PercentageSplit{Entries: entries})
			},
		},
		&cobra.Command{
			Use:   "exact <total> <user>=<amount>...",
			Short: "Assign explicit amounts",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				total, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				pairs, err := parsePairs(args[1:])
				if err != nil {
					return err
				}
				entries := make([]calculator.ExactEntry, len(pairs))
				for i, p := range pairs {
					entries[i] = calculator.ExactEntry{UserID: p.user, Amount: p.value}
				}
				return printSplits(cmd, total, calculator.ExactSplit{Entries: entries})
			},
		},
	)
	return cmd
}

func printSplits(cmd *cobra.Command, total float64, req calculator.SplitRequest) error {
	splits, err := calculator.GenerateSplits(total, req)
	if err != nil {
		return err
	}
	if err := calculator.ValidateSplits(req.Type(), total, splits); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, s := range splits {
		fmt.Fprintf(out, "%-20s %10s\n", s.UserID, formatAmount(s.Amount))
	}
	return nil
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

type pair struct {
	user  string
	value float64
}

func parsePairs(args []string) ([]pair, error) {
	pairs := make([]pair, len(args))
	for i, arg := range args {
		user, value, ok := strings.Cut(arg, "=")
		if !ok || user == "" {
			return nil, fmt.Errorf("expected <user>=<value>, got %q", arg)
		}
		v, err := parseAmount(value)
		if err != nil {
			return nil, err
		}
		pairs[i] = pair{user: user, value: v}
	}
	return pairs, nil
}
