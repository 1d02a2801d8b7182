package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssfs/ssfs"
)

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME",
		Short: "Remove a file from the volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := diskPath(cmd)
			if err != nil {
				return err
			}
			m, err := ssfs.MountExisting(path)
			if err != nil {
				return fmt.Errorf("rm: %w", err)
			}
			if err := m.Remove(args[0]); err != nil {
				return fmt.Errorf("rm %s: %w", args[0], err)
			}
			return nil
		},
	}
}
