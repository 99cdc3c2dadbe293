package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/strand/pkg/config"
	"github.com/odvcencio/strand/pkg/diff"
)

const version = "0.1.0-dev"

type rootOptions struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "strand",
		Short:         "Diff, patch and three-way merge for text and structured values",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (.toml, .yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log merge decisions to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newDiffCmd(opts))
	root.AddCommand(newDeltaCmd(opts))
	root.AddCommand(newMatchCmd(opts))
	root.AddCommand(newPatchCmd(opts))
	root.AddCommand(newMerge3Cmd(opts))
	root.AddCommand(newMergeJSONCmd(opts))
	root.AddCommand(newStoreCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "strand %s\n", version)
		},
	}
}

// config returns the file named by --config, or the defaults.
func (o *rootOptions) config() (*config.Config, error) {
	if o.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(o.configPath)
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// readInput reads a file argument; "-" reads standard input.
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// readInputs reads text arguments, which must be valid UTF-8.
func readInputs(cmd *cobra.Command, paths ...string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		s, err := readInput(cmd, p)
		if err != nil {
			return nil, err
		}
		if err := diff.ValidateText(s); err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		out[i] = s
	}
	return out, nil
}
