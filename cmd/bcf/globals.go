package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/blert-io/bcf"
	"github.com/blert-io/bcf/i18n"
	"github.com/blert-io/bcf/internal/config"
)

const defaultConfigPath = config.DefaultPath

// globals carries state shared by every subcommand.
type globals struct {
	configPath string
	verbose    bool
	language   string

	cfg    *config.Config
	stderr io.Writer
}

func (g *globals) load(cmd *cobra.Command) error {
	g.stderr = cmd.ErrOrStderr()
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	g.cfg = cfg
	lang := cfg.Language
	if g.language != "" {
		lang = g.language
	}
	i18n.SetLanguage(lang)
	g.logf("config: path=%s version=%q language=%s output=%s", g.configPath, cfg.Version, lang, cfg.Output)
	return nil
}

func (g *globals) logf(format string, a ...any) {
	if g.verbose && g.stderr != nil {
		fmt.Fprintf(g.stderr, format+"\n", a...)
	}
}

// validateFlags are the validation overrides shared by subcommands that read
// documents.
type validateFlags struct {
	version string
	strict  bool
	lax     bool
}

func (f *validateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.version, "bcf-version", "", "pin validation to a BCF version (e.g. 1.0)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "use the strict grammar")
	cmd.Flags().BoolVar(&f.lax, "lax", false, "use the lax grammar")
	cmd.MarkFlagsMutuallyExclusive("strict", "lax")
}

// options merges flags over the configuration file.
func (f *validateFlags) options(cfg *config.Config) (bcf.ValidateOptions, error) {
	opts := cfg.ValidateOptions()
	if f.version != "" {
		v, ok := bcf.ParseVersion(f.version)
		if !ok {
			return opts, fmt.Errorf("malformed --bcf-version %q", f.version)
		}
		opts.Version = v
	}
	switch {
	case f.strict:
		opts.Mode = bcf.ModeStrict
	case f.lax:
		opts.Mode = bcf.ModeLax
	}
	return opts, nil
}

// readDocument reads and validates a document from path ("-" for stdin).
// Files ending in .yaml or .yml are parsed as YAML.
func readDocument(cmd *cobra.Command, path string, opts bcf.ValidateOptions) (bcf.Result, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return bcf.Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return bcf.ParseAndValidateYAML(data, opts), nil
	default:
		return bcf.ParseAndValidate(data, opts), nil
	}
}

// loadDocument is readDocument for subcommands that need a valid document.
func loadDocument(cmd *cobra.Command, g *globals, path string, f *validateFlags) (*bcf.Document, error) {
	opts, err := f.options(g.cfg)
	if err != nil {
		return nil, err
	}
	res, err := readDocument(cmd, path, opts)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return nil, fmt.Errorf("%s is not a valid BCF document: %w", path, res.Err())
	}
	g.logf("loaded %s (version %s)", path, res.Version)
	return res.Document, nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
