package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blert-io/bcf"
)

type fileReport struct {
	File    string               `json:"file"`
	Valid   bool                 `json:"valid"`
	Version string               `json:"version,omitempty"`
	Errors  bcf.ValidationErrors `json:"errors,omitempty"`
}

func validateCmd(g *globals) *cobra.Command {
	f := &validateFlags{}
	var output string
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate BCF documents (JSON or YAML; - reads stdin)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(g.cfg)
			if err != nil {
				return err
			}
			if output == "" {
				output = g.cfg.Output
			}
			g.logf("validate: files=%d version=%s mode=%s", len(args), opts.Version, opts.Mode)

			reports := make([]fileReport, 0, len(args))
			failed := 0
			for _, path := range args {
				res, err := readDocument(cmd, path, opts)
				if err != nil {
					return err
				}
				r := fileReport{File: path, Valid: res.Valid, Errors: res.Errors}
				if res.Valid {
					r.Version = res.Version.String()
				} else {
					failed++
				}
				reports = append(reports, r)
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				if err := writeJSON(out, reports); err != nil {
					return err
				}
			case "text":
				printReports(out, reports)
			default:
				return fmt.Errorf("unsupported output format: %q", output)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed validation", failed, len(args))
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format (text, json)")
	return cmd
}

func printReports(w io.Writer, reports []fileReport) {
	for _, r := range reports {
		if r.Valid {
			fmt.Fprintf(w, "%s: valid (BCF %s)\n", r.File, r.Version)
			continue
		}
		fmt.Fprintf(w, "%s: invalid (%d errors)\n", r.File, len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  - [%s] %s\n", e.Type, e.String())
		}
	}
}
