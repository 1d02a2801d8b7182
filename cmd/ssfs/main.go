// Command ssfs drives an SSFS volume from the shell: format a backing file,
// list its directory, and read, write, or remove files through it.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.WithField("component", "cmd/ssfs")

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "ssfs",
		Short:         "Mount and drive an SSFS (Simple Shadow File System) volume",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringP("disk", "d", "", "backing file path (default: "+defaultDiskFlag()+")")

	root.AddCommand(formatCmd())
	root.AddCommand(lsCmd())
	root.AddCommand(catCmd())
	root.AddCommand(writeCmd())
	root.AddCommand(rmCmd())
	return root
}

func defaultDiskFlag() string {
	return "ssfs_disk0.img"
}

func diskPath(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("disk")
	if err != nil {
		return "", err
	}
	return path, nil
}
