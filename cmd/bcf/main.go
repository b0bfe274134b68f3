package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "bcf",
		Short:         "Validate and inspect Blert Chart Format documents",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&g.configPath, "config", defaultConfigPath, "path to the configuration file")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logs")
	root.PersistentFlags().StringVar(&g.language, "lang", "", "grammar message language (en, ja)")

	root.AddCommand(validateCmd(g))
	root.AddCommand(stateCmd(g))
	root.AddCommand(schemaCmd(g))
	root.AddCommand(inspectCmd(g))
	root.AddCommand(versionCmd())
	return root
}
