package main

import (
	"github.com/spf13/cobra"

	"github.com/blert-io/bcf"
)

var version = "dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bcf version and supported BCF versions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
			for _, v := range bcf.SupportedVersions() {
				cmd.Printf("BCF %s\n", v)
			}
		},
	}
}
