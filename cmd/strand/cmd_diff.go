package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/strand/pkg/diff"
)

func newDiffCmd(opts *rootOptions) *cobra.Command {
	var lines, semantic, efficiency, delta bool

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show the character edit script between two files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			texts, err := readInputs(cmd, args...)
			if err != nil {
				return err
			}
			dopts := cfg.DiffOptions()

			var diffs []diff.Diff
			if lines {
				diffs = diff.LineMode(texts[0], texts[1], dopts)
			} else {
				diffs = diff.Main(texts[0], texts[1], true, dopts)
			}
			switch {
			case semantic:
				diffs = diff.CleanupSemantic(diffs)
			case efficiency:
				diffs = diff.CleanupEfficiency(diffs, dopts.EditCost)
			}

			out := cmd.OutOrStdout()
			if delta {
				fmt.Fprintln(out, diff.ToDelta(diffs))
				return nil
			}
			fmt.Fprint(out, diff.PrettyText(diffs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&lines, "lines", false, "diff whole lines")
	cmd.Flags().BoolVar(&semantic, "semantic", false, "apply semantic cleanup")
	cmd.Flags().BoolVar(&efficiency, "efficiency", false, "apply efficiency cleanup")
	cmd.Flags().BoolVar(&delta, "delta", false, "print the compact delta instead")
	cmd.MarkFlagsMutuallyExclusive("semantic", "efficiency")
	return cmd
}

func newDeltaCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delta",
		Short: "Encode or decode compact deltas",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "encode <old> <new>",
		Short: "Print the delta turning old into new",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			texts, err := readInputs(cmd, args...)
			if err != nil {
				return err
			}
			diffs := diff.Main(texts[0], texts[1], true, cfg.DiffOptions())
			fmt.Fprintln(cmd.OutOrStdout(), diff.ToDelta(diffs))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "decode <old> <delta-file>",
		Short: "Apply a delta to old and print the new text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := readInputs(cmd, args...)
			if err != nil {
				return err
			}
			diffs, err := diff.FromDelta(texts[0], trimNewline(texts[1]))
			if err != nil {
				return fmt.Errorf("delta decode: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), diff.Text2(diffs))
			return nil
		},
	})
	return cmd
}

// trimNewline drops the single line ending an editor or "delta encode"
// leaves after the delta line.
func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		s = s[:n-1]
		if n := len(s); n > 0 && s[n-1] == '\r' {
			s = s[:n-1]
		}
	}
	return s
}
