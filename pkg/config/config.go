// Package config loads esparse settings from a YAML file and turns them into
// parser options.
package config

import (
	"bytes"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"esparse/pkg/features"
	"esparse/pkg/parser"
)

// Config mirrors the configuration file.
//
//	sourceType: module
//	edition: es2020
//	features:
//	  optionalChaining: false
//	comments: true
type Config struct {
	// SourceType is "script" or "module".
	SourceType string `yaml:"sourceType"`

	// Edition names the feature preset, "latest" when empty.
	Edition string `yaml:"edition"`

	// Features overrides single flags of the preset by name.
	Features map[string]bool `yaml:"features"`

	Comments       bool   `yaml:"comments"`
	SourceEncoding string `yaml:"sourceEncoding"`
	StrictEncoding bool   `yaml:"strictEncoding"`
	ValidateRegExp bool   `yaml:"validateRegExp"`

	// JSX requests the JSX grammar, which needs an extension to be
	// registered with the options.
	JSX bool `yaml:"jsx"`

	// Workers is the number of parse workers, 0 for one per CPU.
	Workers int `yaml:"workers"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		SourceType: string(parser.Script),
		Edition:    "latest",
	}
}

// Load reads and validates a configuration file. Fields missing from the
// file keep their default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading config %s", path)
	}
	return cfg, nil
}

// Parse decodes and validates configuration data. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the source type, the edition and the feature names.
func (c *Config) Validate() error {
	switch parser.SourceType(c.SourceType) {
	case parser.Script, parser.Module:
	default:
		return errors.Errorf("invalid sourceType %q: want script or module", c.SourceType)
	}
	_, err := c.FeatureSet()
	return err
}

// FeatureSet returns the edition preset with the per flag overrides applied.
func (c *Config) FeatureSet() (features.Features, error) {
	edition := c.Edition
	if edition == "" {
		edition = "latest"
	}
	set, err := features.ByName(edition)
	if err != nil {
		return features.Features{}, errors.WithStack(err)
	}
	names := make([]string, 0, len(c.Features))
	for name := range c.Features {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := set.Set(name, c.Features[name]); err != nil {
			return features.Features{}, errors.WithStack(err)
		}
	}
	return set, nil
}

// Options builds parser options. jsx is the JSX extension; requesting JSX
// without one is an error.
func (c *Config) Options(logger *zap.Logger, jsx parser.Extension) (*parser.Options, error) {
	set, err := c.FeatureSet()
	if err != nil {
		return nil, err
	}
	if c.JSX && jsx == nil {
		return nil, errors.New("jsx is enabled but no JSX extension is available")
	}
	opts := &parser.Options{
		SourceType:     parser.SourceType(c.SourceType),
		Features:       set,
		SourceEncoding: c.SourceEncoding,
		StrictEncoding: c.StrictEncoding,
		Comments:       c.Comments,
		ValidateRegExp: c.ValidateRegExp,
		Logger:         logger,
	}
	if c.JSX {
		opts.JSX = jsx
	}
	return opts, nil
}
