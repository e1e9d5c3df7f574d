package main

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"esparse/pkg/config"
	"esparse/pkg/parser"
)

// globalFlags are shared by every command. Flags given on the command line
// override the configuration file.
type globalFlags struct {
	configPath     string
	verbose        bool
	module         bool
	comments       bool
	edition        string
	encoding       string
	strictEncoding bool
	validateRegExp bool
	features       []string
	workers        int
}

func (f *globalFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML configuration file")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "log parser activity to stderr")
	pf.BoolVar(&f.module, "module", false, "parse with the module goal")
	pf.BoolVar(&f.comments, "comments", false, "attach comments to nodes and emit comment tokens")
	pf.StringVar(&f.edition, "edition", "", "feature preset: es2015 .. es2022 or latest")
	pf.StringVar(&f.encoding, "encoding", "", `source encoding, "auto" to detect`)
	pf.BoolVar(&f.strictEncoding, "strict-encoding", false, "fail on malformed input bytes")
	pf.BoolVar(&f.validateRegExp, "validate-regexp", false, "compile regular expression literals")
	pf.StringSliceVar(&f.features, "feature", nil, "toggle a feature, e.g. optionalChaining=false")
	pf.IntVar(&f.workers, "workers", 0, "parse workers for deps, 0 for one per CPU")
}

// settings is the resolved configuration of a command run.
type settings struct {
	cfg     *config.Config
	options *parser.Options
	logger  *zap.Logger
}

func (f *globalFlags) resolve(cmd *cobra.Command) (*settings, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("module") {
		cfg.SourceType = string(parser.Script)
		if f.module {
			cfg.SourceType = string(parser.Module)
		}
	}
	if changed("comments") {
		cfg.Comments = f.comments
	}
	if changed("edition") {
		cfg.Edition = f.edition
	}
	if changed("encoding") {
		cfg.SourceEncoding = f.encoding
	}
	if changed("strict-encoding") {
		cfg.StrictEncoding = f.strictEncoding
	}
	if changed("validate-regexp") {
		cfg.ValidateRegExp = f.validateRegExp
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	for _, toggle := range f.features {
		name, value, err := parseToggle(toggle)
		if err != nil {
			return nil, err
		}
		if cfg.Features == nil {
			cfg.Features = make(map[string]bool)
		}
		cfg.Features[name] = value
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if f.verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, errors.Wrap(err, "creating logger")
		}
	}
	opts, err := cfg.Options(logger, nil)
	if err != nil {
		return nil, err
	}
	return &settings{cfg: cfg, options: opts, logger: logger}, nil
}

// parseToggle splits "name=bool"; a bare name enables the feature.
func parseToggle(s string) (string, bool, error) {
	name, value, found := strings.Cut(s, "=")
	if !found {
		return name, true, nil
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return "", false, errors.Errorf("invalid feature toggle %q", s)
	}
	return name, enabled, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
