// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/restspecs/restspecs/internal/catalog"
	"github.com/restspecs/restspecs/internal/config"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

type (
	// App wires CLI services and shared dependencies. Cobra handlers receive an
	// App and delegate through its service interfaces.
	App struct {
		Config  ConfigProvider
		Catalog CatalogService
		stdout  io.Writer
		stderr  io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config  ConfigProvider
		Catalog CatalogService
		// Fs backs the default CatalogService. Defaults to the OS filesystem.
		Fs     afero.Fs
		Stdout io.Writer
		Stderr io.Writer
	}

	// CatalogRequest is the request-scoped contract between Cobra handlers and
	// the CatalogService.
	CatalogRequest struct {
		catalog.Request
		// Excludes are doublestar globs skipped during the walk.
		Excludes []string
		// Verbose enables debug logging.
		Verbose bool
	}

	// CatalogService runs catalog operations. Implementations must not write
	// results to stdout; diagnostics come back in the Result.
	CatalogService interface {
		Generate(ctx context.Context, req CatalogRequest) (*catalog.Result, error)
		Assemble(ctx context.Context, req CatalogRequest) (*catalog.Result, error)
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	appCatalogService struct {
		fs     afero.Fs
		stderr io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Catalog == nil {
		deps.Catalog = &appCatalogService{fs: deps.Fs, stderr: deps.Stderr}
	}

	return &App{
		Config:  deps.Config,
		Catalog: deps.Catalog,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
	}, nil
}

// Generate scans, filters and writes the manifest.
func (s *appCatalogService) Generate(ctx context.Context, req CatalogRequest) (*catalog.Result, error) {
	gen, err := s.generator(req)
	if err != nil {
		return nil, err
	}
	return gen.Generate(ctx, req.Request)
}

// Assemble scans and filters without writing.
func (s *appCatalogService) Assemble(ctx context.Context, req CatalogRequest) (*catalog.Result, error) {
	gen, err := s.generator(req)
	if err != nil {
		return nil, err
	}
	return gen.Assemble(ctx, req.SourceRoots, req.Namespace)
}

func (s *appCatalogService) generator(req CatalogRequest) (*catalog.Generator, error) {
	return catalog.New(
		catalog.WithFs(s.fs),
		catalog.WithLogger(newLogger(s.stderr, req.Verbose)),
		catalog.WithExcludes(req.Excludes...),
	)
}

// newLogger returns the CLI logger. Warnings reach the user as rendered
// diagnostics, so only errors are logged unless verbose is set.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "restspecs"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.ErrorLevel)
	}
	return logger
}
