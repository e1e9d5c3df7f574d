package main

import (
	"github.com/spf13/cobra"

	"esparse/pkg/parser"
	"esparse/pkg/source"
)

func newTokenizeCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize FILE...",
		Short: "Print the tokens of each file as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			defer s.logger.Sync() //nolint:errcheck
			return eachFile(cmd, s, args, func(file *source.SourceFile) (any, error) {
				return parser.Tokenize(file.Content, s.options)
			})
		},
	}
}
