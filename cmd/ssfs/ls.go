package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssfs/ssfs"
)

func lsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List every file in the volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := diskPath(cmd)
			if err != nil {
				return err
			}
			m, err := ssfs.MountExisting(path)
			if err != nil {
				return fmt.Errorf("ls: %w", err)
			}
			entries, err := m.List()
			if err != nil {
				return fmt.Errorf("ls: %w", err)
			}
			for _, e := range entries {
				fmt.Printf("%8d  %s\n", e.Size, e.Name)
			}
			return nil
		},
	}
}
