package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blert-io/bcf"
)

func schemaCmd(g *globals) *cobra.Command {
	var (
		ver string
		lax bool
	)
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a BCF grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := bcf.LatestVersion
			if ver != "" {
				parsed, ok := bcf.ParseVersion(ver)
				if !ok {
					return fmt.Errorf("malformed --bcf-version %q", ver)
				}
				v = parsed
			}
			g.logf("schema: version=%s lax=%v", v, lax)
			s, err := bcf.GrammarJSONSchema(v, !lax)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().StringVar(&ver, "bcf-version", "", "BCF version (defaults to the latest)")
	cmd.Flags().BoolVar(&lax, "lax", false, "print the lax grammar of the version's major")
	return cmd
}
