package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"esparse/pkg/modules"
)

type depsModule struct {
	Path     string                `json:"path"`
	External bool                  `json:"external,omitempty"`
	Imports  []*modules.ImportSpec `json:"imports,omitempty"`
	Exports  []*modules.ExportSpec `json:"exports,omitempty"`
	Depends  []string              `json:"dependsOn,omitempty"`
	Error    string                `json:"error,omitempty"`
}

type depsReport struct {
	Modules []depsModule `json:"modules"`
	Order   []string     `json:"order,omitempty"`
	Cycles  []string     `json:"cycles,omitempty"`
}

func newDepsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "deps ENTRY...",
		Short: "Crawl relative imports from the entry modules and print the module graph",
		Long: "Crawl parses the entry modules and every module they reach through\n" +
			"relative imports. Paths are resolved below the working directory.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Imports only exist in modules.
			if !cmd.Flags().Changed("module") {
				if err := cmd.Flags().Set("module", "true"); err != nil {
					return err
				}
			}
			s, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			defer s.logger.Sync() //nolint:errcheck

			entries := make([]string, 0, len(args))
			for _, arg := range args {
				entry, err := relativeEntry(arg)
				if err != nil {
					return err
				}
				entries = append(entries, entry)
			}

			graph, err := modules.Crawl(cmd.Context(), os.DirFS("."), entries, &modules.PoolConfig{
				NumWorkers: s.cfg.Workers,
				Options:    s.options,
				Logger:     s.logger,
			})
			if err != nil {
				return err
			}
			return printGraph(cmd, s.logger, graph)
		},
	}
}

func printGraph(cmd *cobra.Command, logger *zap.Logger, graph *modules.Graph) error {
	report := depsReport{}
	failed := false
	for _, p := range graph.Modules() {
		m := depsModule{
			Path:     p,
			External: graph.IsExternal(p),
			Depends:  graph.Dependencies(p),
		}
		if r := graph.Result(p); r != nil {
			m.Imports = r.ImportSpecs
			m.Exports = r.ExportSpecs
			if r.Error != nil {
				m.Error = r.Error.Error()
				content := ""
				if r.Source != nil {
					content = r.Source.Content
				}
				if !reportable(cmd, p, content, r.Error) {
					return r.Error
				}
				failed = true
			}
		}
		report.Modules = append(report.Modules, m)
	}

	order, err := graph.TopologicalOrder()
	if err != nil {
		logger.Debug("graph has cycles", zap.Error(err))
		report.Cycles = graph.CircularModules()
	} else {
		report.Order = order
	}

	if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if failed {
		return errReported
	}
	return nil
}

// relativeEntry turns a command line path into a slash separated path below
// the working directory.
func relativeEntry(arg string) (string, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", errors.WithStack(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.WithStack(err)
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil {
		return "", errors.WithStack(err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", errors.Errorf("%s is outside the working directory", arg)
	}
	return rel, nil
}
