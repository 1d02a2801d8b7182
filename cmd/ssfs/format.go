package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssfs/ssfs"
)

func formatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format",
		Short: "Create a fresh SSFS volume at the backing file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := diskPath(cmd)
			if err != nil {
				return err
			}
			m, err := ssfs.MountFresh(path)
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}
			_ = m
			log.Infof("formatted fresh SSFS volume (%d bytes)", ssfs.Size)
			return nil
		},
	}
}
