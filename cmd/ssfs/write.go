package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssfs/ssfs"
)

func writeCmd() *cobra.Command {
	var fromFile string
	cmd := &cobra.Command{
		Use:   "write NAME",
		Short: "Write stdin (or --from) into NAME, creating it if absent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := diskPath(cmd)
			if err != nil {
				return err
			}
			m, err := ssfs.MountExisting(path)
			if err != nil {
				return fmt.Errorf("write: %w", err)
			}

			src := os.Stdin
			if fromFile != "" {
				f, err := os.Open(fromFile)
				if err != nil {
					return fmt.Errorf("write %s: %w", args[0], err)
				}
				defer f.Close()
				src = f
			}

			// Open starts an existing file's write cursor at EOF (spec.md
			// §4.7) — there is no truncate operation, so writing to an
			// existing name appends rather than overwrites.
			fd, err := m.Open(args[0])
			if err != nil {
				return fmt.Errorf("write %s: %w", args[0], err)
			}
			defer m.Close(fd)

			buf := make([]byte, 4096)
			for {
				n, rerr := src.Read(buf)
				if n > 0 {
					if _, werr := m.Write(fd, buf[:n]); werr != nil {
						return fmt.Errorf("write %s: %w", args[0], werr)
					}
				}
				if rerr != nil {
					if errors.Is(rerr, io.EOF) {
						return nil
					}
					return fmt.Errorf("write %s: %w", args[0], rerr)
				}
			}
		},
	}
	cmd.Flags().StringVar(&fromFile, "from", "", "read contents from this file instead of stdin")
	return cmd
}
