package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odvcencio/strand/pkg/patch"
)

func newPatchCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Make and apply fuzzy patches",
	}
	cmd.AddCommand(newPatchMakeCmd(opts))
	cmd.AddCommand(newPatchApplyCmd(opts))
	return cmd
}

func newPatchMakeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "make <old> <new>",
		Short: "Print the patch turning old into new",
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
			patches := patch.MakeFromTexts(texts[0], texts[1], cfg.PatchOptions())
			fmt.Fprint(cmd.OutOrStdout(), patch.ToText(patches))
			return nil
		},
	}
}

func newPatchApplyCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "apply <patch-file> <target>",
		Short: "Apply a patch to target, relocating hunks that moved",
		Long: "Writes the patched text to stdout (or --output) and one status line per hunk to stderr.\n" +
			"Exits non-zero when any hunk could not be placed.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			texts, err := readInputs(cmd, args...)
			if err != nil {
				return err
			}
			patches, err := patch.FromText(texts[0])
			if err != nil {
				return fmt.Errorf("patch apply: %w", err)
			}

			result, applied := patch.Apply(patches, texts[1], cfg.PatchOptions())

			if output != "" {
				if err := os.WriteFile(output, []byte(result), 0o644); err != nil {
					return fmt.Errorf("patch apply: %w", err)
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), result)
			}

			failed := 0
			errOut := cmd.ErrOrStderr()
			for i, ok := range applied {
				status := "applied"
				if !ok {
					status = "failed"
					failed++
				}
				fmt.Fprintf(errOut, "hunk %d %s: %s\n", i+1, hunkHeader(patches[i]), status)
			}
			if failed > 0 {
				return fmt.Errorf("patch apply: %d of %d hunks failed", failed, len(applied))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to this file")
	return cmd
}

// hunkHeader returns the "@@ ... @@" line of p.
func hunkHeader(p patch.Patch) string {
	header, _, _ := strings.Cut(p.String(), "\n")
	return header
}
