package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssfs/ssfs"
	"github.com/ssfs/ssfs/internal/layout"
	"github.com/ssfs/ssfs/util"
)

func catCmd() *cobra.Command {
	var hex bool
	cmd := &cobra.Command{
		Use:   "cat NAME",
		Short: "Print a file's contents to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := diskPath(cmd)
			if err != nil {
				return err
			}
			m, err := ssfs.MountExisting(path)
			if err != nil {
				return fmt.Errorf("cat: %w", err)
			}

			fd, err := m.Open(args[0])
			if err != nil {
				return fmt.Errorf("cat %s: %w", args[0], err)
			}
			defer m.Close(fd)

			var all []byte
			buf := make([]byte, layout.BlockSize)
			for {
				n, err := m.Read(fd, buf)
				if err != nil {
					return fmt.Errorf("cat %s: %w", args[0], err)
				}
				if n == 0 {
					break
				}
				if hex {
					all = append(all, buf[:n]...)
					continue
				}
				if _, werr := os.Stdout.Write(buf[:n]); werr != nil {
					return werr
				}
			}
			if hex {
				fmt.Print(util.DumpByteSlice(all, 16, true, true, false, nil))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&hex, "hex", false, "dump the contents as a hex/ASCII table instead of raw bytes")
	return cmd
}
