package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/strand/pkg/diff"
	"github.com/odvcencio/strand/pkg/match"
)

func newMatchCmd(opts *rootOptions) *cobra.Command {
	var loc int
	var threshold float64

	cmd := &cobra.Command{
		Use:   "match <file> <pattern>",
		Short: "Find the best fuzzy match of pattern near a location",
		Long:  "Prints the rune offset of the best match, or -1 if nothing scores under the threshold.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			texts, err := readInputs(cmd, args[0])
			if err != nil {
				return err
			}
			if err := diff.ValidateText(args[1]); err != nil {
				return fmt.Errorf("match: pattern: %w", err)
			}
			mopts := cfg.MatchOptions()
			if cmd.Flags().Changed("threshold") {
				if threshold < 0 || threshold > 1 {
					return fmt.Errorf("match: --threshold must be in [0,1], got %g", threshold)
				}
				mopts.Threshold = threshold
			}
			fmt.Fprintln(cmd.OutOrStdout(), match.Locate(texts[0], args[1], loc, mopts))
			return nil
		},
	}

	cmd.Flags().IntVar(&loc, "loc", 0, "expected rune offset of the match")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "override match.threshold")
	return cmd
}
