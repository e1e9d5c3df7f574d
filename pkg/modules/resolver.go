package modules

import (
	"io/fs"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// Resolver maps relative and absolute module specifiers to files of an
// fs.FS. Paths are slash separated and relative to the root of the FS.
type Resolver struct {
	fs         fs.FS
	extensions []string // tried when the exact path is not a file
	indexFiles []string // tried when the path is a directory
}

// NewResolver creates a resolver over fsys.
func NewResolver(fsys fs.FS) *Resolver {
	return &Resolver{
		fs:         fsys,
		extensions: []string{".js", ".mjs", ".cjs", ".jsx"},
		indexFiles: []string{"index.js", "index.mjs", "index.jsx"},
	}
}

// SetExtensions sets the file extensions to try during resolution.
func (r *Resolver) SetExtensions(extensions []string) {
	r.extensions = extensions
}

// SetIndexFiles sets the index file names to try during resolution.
func (r *Resolver) SetIndexFiles(indexFiles []string) {
	r.indexFiles = indexFiles
}

// CanResolve reports whether the specifier names a file rather than a
// package.
func (r *Resolver) CanResolve(specifier string) bool {
	return strings.HasPrefix(specifier, "./") ||
		strings.HasPrefix(specifier, "../") ||
		strings.HasPrefix(specifier, "/")
}

// Resolve returns the file a specifier imported from fromPath refers to.
func (r *Resolver) Resolve(specifier, fromPath string) (string, error) {
	if !r.CanResolve(specifier) {
		return "", errors.Errorf("unsupported specifier format: %s", specifier)
	}

	var target string
	if strings.HasPrefix(specifier, "/") {
		target = strings.TrimPrefix(path.Clean(specifier), "/")
	} else {
		target = path.Join(path.Dir(fromPath), specifier)
	}
	if target == "" || target == ".." || strings.HasPrefix(target, "../") {
		return "", errors.Errorf("module %s escapes the root directory", specifier)
	}

	resolved, err := r.tryResolve(target)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s from %s", specifier, fromPath)
	}
	return resolved, nil
}

func (r *Resolver) tryResolve(target string) (string, error) {
	if r.isFile(target) {
		return target, nil
	}
	for _, ext := range r.extensions {
		if r.isFile(target + ext) {
			return target + ext, nil
		}
	}
	for _, index := range r.indexFiles {
		if p := path.Join(target, index); r.isFile(p) {
			return p, nil
		}
	}
	return "", errors.Errorf("module not found: %s", target)
}

// isFile checks if a path exists and is a file, not a directory.
func (r *Resolver) isFile(p string) bool {
	info, err := fs.Stat(r.fs, p)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
