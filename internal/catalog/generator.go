// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"syscall"

	"github.com/restspecs/restspecs/internal/issue"
	"github.com/restspecs/restspecs/pkg/fspath"
	"github.com/restspecs/restspecs/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

type (
	// Generator builds catalogs from source roots and writes manifests.
	Generator struct {
		fs       afero.Fs
		logger   *log.Logger
		excludes []string
		scanner  *Scanner
		writer   *Writer
	}

	// Option configures a Generator.
	Option func(*Generator)

	// Request holds the inputs of one generation run.
	Request struct {
		// SourceRoots are the directories searched for specifications. Missing
		// roots contribute nothing; their order does not affect the result.
		SourceRoots []types.FilesystemPath
		// Destination is the root under which <namespace-as-path>/restspecs.rs is written.
		Destination types.FilesystemPath
		// Namespace selects both the manifest directory and the retained entries.
		Namespace types.Namespace
	}

	// Stats counts what a run saw.
	Stats struct {
		// Roots is the number of source roots that were scanned.
		Roots int
		// Files is the number of regular files visited.
		Files int
		// Matches is the number of specification files visited.
		Matches int
		// Duplicates is the number of matches whose resource path had already
		// been cataloged from an earlier root.
		Duplicates int
		// Retained is the number of entries under the namespace.
		Retained int
	}

	// Result describes a finished run.
	Result struct {
		// ManifestPath is where the manifest was written. Empty for Assemble.
		ManifestPath types.FilesystemPath
		// Namespace is the namespace the entries were filtered to.
		Namespace types.Namespace
		// Entries are the retained resource paths in ascending order.
		Entries []types.ResourcePath
		Stats   Stats
		// Diagnostics are non-fatal findings such as missing source roots.
		Diagnostics []Diagnostic
	}
)

// WithFs sets the filesystem scanned and written to. Defaults to the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(g *Generator) { g.fs = fsys }
}

// WithLogger sets the logger. Defaults to a logger that discards everything.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithExcludes sets doublestar patterns of root-relative paths to skip.
func WithExcludes(patterns ...string) Option {
	return func(g *Generator) { g.excludes = append(g.excludes, patterns...) }
}

// New creates a Generator. It fails only on invalid exclude patterns.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.fs == nil {
		g.fs = afero.NewOsFs()
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}

	scanner, err := NewScanner(g.fs, g.excludes...)
	if err != nil {
		return nil, err
	}
	g.scanner = scanner
	g.writer = NewWriter(g.fs)
	return g, nil
}

// GenerateCatalog scans sourceRoots on the OS filesystem and writes the
// manifest for namespace under destinationRoot. Missing roots are skipped.
func GenerateCatalog(sourceRoots []string, destinationRoot, namespace string) error {
	g, err := New()
	if err != nil {
		return err
	}

	roots := make([]types.FilesystemPath, len(sourceRoots))
	for i, r := range sourceRoots {
		roots[i] = types.FilesystemPath(r)
	}

	_, err = g.Generate(context.Background(), Request{
		SourceRoots: roots,
		Destination: types.FilesystemPath(destinationRoot),
		Namespace:   types.Namespace(namespace),
	})
	return err
}

// Generate validates the request, assembles the catalog and writes the
// manifest. Nothing is written unless the namespace and destination are
// valid and every root was scanned successfully.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := req.Namespace.Validate(); err != nil {
		return nil, err
	}
	if err := req.Destination.Validate(); err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	res, err := g.Assemble(ctx, req.SourceRoots, req.Namespace)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("catalog run canceled: %w", err)
	}

	path, err := g.writer.Write(req.Destination, req.Namespace, res.Entries)
	if err != nil {
		return nil, err
	}
	res.ManifestPath = path

	g.logger.Info("catalog manifest written", "path", path, "entries", len(res.Entries), "duplicates", res.Stats.Duplicates)
	return res, nil
}

// Assemble scans every root and returns the catalog entries under ns
// without writing anything.
func (g *Generator) Assemble(ctx context.Context, roots []types.FilesystemPath, ns types.Namespace) (*Result, error) {
	if err := ns.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Namespace: ns}
	if len(roots) == 0 {
		g.logger.Warn("no source roots given")
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeNoSourceRoots,
			Message:  "no source roots given, the catalog is empty",
		})
	}

	all := NewCatalog()
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("catalog run canceled: %w", err)
		}
		if err := root.Validate(); err != nil {
			return nil, fmt.Errorf("source root: %w", err)
		}
		root = fspath.Clean(root)

		diag, ok, err := g.checkRoot(root)
		if err != nil {
			return nil, err
		}
		if !ok {
			g.logger.Warn(diag.Message, "root", root)
			res.Diagnostics = append(res.Diagnostics, diag)
			continue
		}

		if err := g.scanRoot(ctx, root, all, &res.Stats); err != nil {
			return nil, err
		}
		res.Stats.Roots++
	}

	retained := all.Filter(ns)
	res.Entries = retained.Paths()
	res.Stats.Retained = retained.Len()
	return res, nil
}

// checkRoot reports whether root can be scanned. A missing root or one that
// is not a directory yields a diagnostic instead of an error.
func (g *Generator) checkRoot(root types.FilesystemPath) (Diagnostic, bool, error) {
	info, err := g.fs.Stat(string(root))
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeSourceRootMissing,
			Message:  "source root does not exist, skipping",
			Path:     root,
			Cause:    err,
		}, false, nil
	case err != nil:
		return Diagnostic{}, false, scanFailure(root, err)
	case !info.IsDir():
		return Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeSourceRootNotDirectory,
			Message:  "source root is not a directory, skipping",
			Path:     root,
		}, false, nil
	}
	return Diagnostic{}, true, nil
}

func (g *Generator) scanRoot(ctx context.Context, root types.FilesystemPath, all *Catalog, stats *Stats) error {
	var files, matches int
	for entry, err := range g.scanner.Scan(string(root)) {
		if err != nil {
			return scanFailure(root, err)
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("catalog run canceled: %w", err)
		}

		files++
		if !IsSpecification(entry.Name) {
			continue
		}
		matches++

		rp, err := ResourcePathFor(string(root), entry.Path)
		if err != nil {
			return scanFailure(root, err)
		}
		if !all.Add(rp) {
			stats.Duplicates++
			g.logger.Debug("specification already cataloged", "resource", rp, "root", root)
		}
	}

	stats.Files += files
	stats.Matches += matches
	g.logger.Debug("source root scanned", "root", root, "files", files, "specs", matches)
	return nil
}

func scanFailure(root types.FilesystemPath, err error) error {
	return issue.NewErrorContext().
		WithOperation(OpScanSourceRoot).
		WithResource(string(root)).
		WithSuggestion("Check the permissions of the directories below the source root").
		WithSuggestion("Exclude directories that hold no specifications with --exclude").
		Wrap(err).
		BuildError()
}
