package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	srcerrors "esparse/pkg/errors"
	"esparse/pkg/parser"
	"esparse/pkg/source"
	"esparse/pkg/source/charset"
)

func newParseCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE...",
		Long:  "Parse each file and print its syntax tree. A FILE of - reads standard input.",
		Short: "Print the syntax tree of each file as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			defer s.logger.Sync() //nolint:errcheck
			return eachFile(cmd, s, args, func(file *source.SourceFile) (any, error) {
				return parser.Parse(file.Content, s.options)
			})
		},
	}
}

// eachFile reads every path, runs fn on it and prints the result. Syntax
// errors are printed with their source line and processing continues with
// the next file.
func eachFile(cmd *cobra.Command, s *settings, paths []string, fn func(*source.SourceFile) (any, error)) error {
	failed := false
	for _, path := range paths {
		file, err := readSource(cmd, path, s)
		if err != nil {
			if reportable(cmd, path, "", err) {
				failed = true
				continue
			}
			return err
		}
		out, err := fn(file)
		if err != nil {
			if reportable(cmd, file.DisplayPath(), file.Content, err) {
				failed = true
				continue
			}
			return err
		}
		s.logger.Debug("processed", zap.String("path", file.DisplayPath()))
		if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
			return err
		}
	}
	if failed {
		return errReported
	}
	return nil
}

// readSource loads path, or standard input for "-".
func readSource(cmd *cobra.Command, path string, s *settings) (*source.SourceFile, error) {
	if path != "-" {
		return charset.ReadFile(path, s.options.SourceEncoding, s.options.StrictEncoding)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, errors.Wrap(err, "reading standard input")
	}
	content, err := charset.Decode(data, s.options.SourceEncoding, s.options.StrictEncoding)
	if err != nil {
		return nil, err
	}
	return source.NewStdinSource(content), nil
}

// reportable prints err when it is a source error and reports whether it did.
func reportable(cmd *cobra.Command, path, content string, err error) bool {
	var srcErr srcerrors.Error
	if !errors.As(err, &srcErr) {
		return false
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s:\n", path)
	srcerrors.DisplayErrors(cmd.ErrOrStderr(), content, []srcerrors.Error{srcErr})
	return true
}
