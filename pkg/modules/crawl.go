package modules

import (
	"context"
	"io/fs"
	"path"
	"time"

	"github.com/pkg/errors"

	"esparse/pkg/parser"
	"esparse/pkg/source"
	"esparse/pkg/source/charset"
)

// Crawl parses the entry modules and every module reachable from them
// through relative imports, one level of the import graph at a time. Bare
// specifiers become external modules. Modules that fail to parse stay in the
// graph with the error in their result.
func Crawl(ctx context.Context, fsys fs.FS, entries []string, config *PoolConfig) (*Graph, error) {
	if config == nil {
		config = DefaultPoolConfig()
	}
	opts := config.Options
	if opts == nil {
		opts = parser.DefaultOptions()
		opts.SourceType = parser.Module
	}

	resolver := NewResolver(fsys)
	graph := NewGraph()
	queued := make(map[string]bool)
	var frontier []string
	for _, entry := range entries {
		p := path.Clean(entry)
		if !queued[p] {
			queued[p] = true
			frontier = append(frontier, p)
		}
	}

	for len(frontier) > 0 {
		jobs := make([]*ParseJob, 0, len(frontier))
		for _, p := range frontier {
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return nil, errors.Wrapf(err, "reading %s", p)
			}
			content, err := charset.Decode(data, opts.SourceEncoding, opts.StrictEncoding)
			if err != nil {
				return nil, errors.Wrapf(err, "decoding %s", p)
			}
			jobs = append(jobs, &ParseJob{
				ModulePath: p,
				Source:     source.NewSourceFile(path.Base(p), p, content),
				Timestamp:  time.Now(),
			})
		}

		results, err := ParseAll(ctx, config, jobs)
		if err != nil {
			return nil, err
		}

		frontier = nil
		for _, r := range results {
			graph.AddModule(r.ModulePath, r)
			for _, imp := range r.ImportSpecs {
				dep := imp.ModulePath
				if !resolver.CanResolve(dep) {
					graph.AddExternal(dep)
					graph.AddDependency(r.ModulePath, dep)
					continue
				}
				resolved, err := resolver.Resolve(dep, r.ModulePath)
				if err != nil {
					return nil, err
				}
				graph.AddDependency(r.ModulePath, resolved)
				if !queued[resolved] {
					queued[resolved] = true
					frontier = append(frontier, resolved)
				}
			}
		}
	}
	return graph, nil
}
