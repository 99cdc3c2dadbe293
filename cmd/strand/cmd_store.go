package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/strand/pkg/object"
)

func newStoreCmd(opts *rootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Put, get, list and remove objects in the content-addressed store",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "store directory (default from config store.dir)")

	open := func() (*object.FileStore, error) {
		if dir != "" {
			return object.NewFileStore(dir), nil
		}
		cfg, err := opts.config()
		if err != nil {
			return nil, err
		}
		return object.NewFileStore(cfg.Store.Dir), nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "put <file>",
		Short: "Store a file and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			id, err := s.Add([]byte(data))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Print a stored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			data, err := s.Get(object.ID(args[0]))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List stored ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			ids, err := s.List()
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>...",
		Short: "Remove stored objects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			for _, arg := range args {
				if err := s.Remove(object.ID(arg)); err != nil {
					return err
				}
			}
			return nil
		},
	})
	return cmd
}
