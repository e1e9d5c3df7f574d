package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"esparse/pkg/ast"
	"esparse/pkg/features"
	"esparse/pkg/lexer"
	"esparse/pkg/parser"
)

type stubJSX struct{}

func (stubJSX) ScanIdentifier(*lexer.Lexer) *lexer.Token { return nil }
func (stubJSX) ScanPunctuator(*lexer.Lexer) *lexer.Token { return nil }
func (stubJSX) ScanString(*lexer.Lexer) *lexer.Token     { return nil }
func (stubJSX) ParsePrimary(*parser.Parser) ast.Node     { return nil }

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "esparse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sourceType: module
edition: es2020
features:
  optionalChaining: false
  classFields: true
comments: true
sourceEncoding: auto
workers: 4
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "module", cfg.SourceType)
	assert.Equal(t, 4, cfg.Workers)

	set, err := cfg.FeatureSet()
	require.NoError(t, err)
	assert.False(t, set.OptionalChaining)
	assert.True(t, set.ClassFields)
	assert.True(t, set.CoalescingOperator)
	assert.False(t, set.LogicalAssignmentOperators)

	logger := zap.NewNop()
	opts, err := cfg.Options(logger, nil)
	require.NoError(t, err)
	assert.Equal(t, parser.Module, opts.SourceType)
	assert.True(t, opts.Comments)
	assert.Equal(t, "auto", opts.SourceEncoding)
	assert.Same(t, logger, opts.Logger)
	assert.Equal(t, set, opts.Features)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	set, err := cfg.FeatureSet()
	require.NoError(t, err)
	assert.Equal(t, features.Latest(), set)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"unknown feature", "features:\n  teleportation: true\n", `unknown feature "teleportation"`},
		{"unknown edition", "edition: es1999\n", `unknown edition "es1999"`},
		{"bad source type", "sourceType: program\n", "invalid sourceType"},
		{"unknown key", "colour: blue\n", "decoding yaml"},
		{"malformed", "features: [\n", "decoding yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestJSXNeedsExtension(t *testing.T) {
	cfg, err := Parse([]byte("jsx: true\n"))
	require.NoError(t, err)

	_, err = cfg.Options(nil, nil)
	assert.ErrorContains(t, err, "no JSX extension")

	opts, err := cfg.Options(nil, stubJSX{})
	require.NoError(t, err)
	assert.NotNil(t, opts.JSX)
}
