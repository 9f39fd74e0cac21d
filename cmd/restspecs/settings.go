// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/restspecs/restspecs/internal/catalog"
	"github.com/restspecs/restspecs/internal/config"
	"github.com/restspecs/restspecs/internal/issue"
	"github.com/restspecs/restspecs/pkg/fspath"
	"github.com/restspecs/restspecs/pkg/types"

	"github.com/spf13/cobra"
)

var (
	errNoSourceRoots      = errors.New("no source roots to watch (use -s/--source or source_roots)")
	errMissingNamespace   = errors.New("no namespace given (use -n/--namespace or namespace)")
	errMissingDestination = errors.New("no destination given (use -d/--destination or destination)")
)

type (
	// catalogFlagValues holds the flags shared by generate and list.
	catalogFlagValues struct {
		sources     []string
		destination string
		namespace   string
		excludes    []string
	}

	// runSettings is the merged view of config file, environment and flags.
	runSettings struct {
		roots       []types.FilesystemPath
		destination types.FilesystemPath
		namespace   types.Namespace
		excludes    []string
		verbose     bool
		debounce    time.Duration
	}
)

// loadConfig loads configuration honoring --config.
func loadConfig(ctx context.Context, app *App, rootFlags *rootFlagValues) (*config.Config, error) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(rootFlags.configPath),
	})
	if err != nil {
		return nil, failure(newServiceError(err, issue.ConfigLoadFailedId))
	}
	return cfg, nil
}

// resolveSettings merges cfg with the flags the user actually set. Paths are
// made absolute; nothing is validated beyond that.
func resolveSettings(cmd *cobra.Command, cfg *config.Config, rootFlags *rootFlagValues, flags *catalogFlagValues) (runSettings, error) {
	s := runSettings{
		excludes: cfg.Exclude,
		verbose:  rootFlags.verbose || cfg.Verbose,
	}

	sources := cfg.SourceRoots
	if cmd.Flags().Changed("source") {
		sources = flags.sources
	}
	destination := cfg.Destination
	if cmd.Flags().Changed("destination") {
		destination = flags.destination
	}
	namespace := cfg.Namespace
	if cmd.Flags().Changed("namespace") {
		namespace = flags.namespace
	}
	if cmd.Flags().Changed("exclude") {
		s.excludes = flags.excludes
	}

	roots := make([]types.FilesystemPath, 0, len(sources))
	for _, src := range sources {
		root := types.FilesystemPath(src)
		if err := root.Validate(); err != nil {
			return runSettings{}, usageError(err)
		}
		roots = append(roots, root)
	}
	abs, err := fspath.AbsAll(roots)
	if err != nil {
		return runSettings{}, usageError(err)
	}
	s.roots = abs

	if destination != "" {
		dest, err := fspath.Abs(types.FilesystemPath(destination))
		if err != nil {
			return runSettings{}, usageError(err)
		}
		s.destination = dest
	}
	s.namespace = types.Namespace(namespace)

	debounce, err := cfg.Watch.DebounceDuration()
	if err != nil {
		return runSettings{}, usageError(newServiceError(err, issue.ConfigLoadFailedId))
	}
	s.debounce = debounce

	return s, nil
}

// requireScanInputs checks the settings both generate and list need. Zero
// source roots is allowed and yields an empty catalog.
func (s runSettings) requireScanInputs() error {
	if s.namespace == "" {
		return usageError(newServiceError(errMissingNamespace, issue.MissingNamespaceId))
	}
	if err := s.namespace.Validate(); err != nil {
		return usageError(newServiceError(err, issue.InvalidNamespaceId))
	}
	return nil
}

// requireGenerateInputs additionally checks the destination.
func (s runSettings) requireGenerateInputs() error {
	if err := s.requireScanInputs(); err != nil {
		return err
	}
	if s.destination == "" {
		return usageError(newServiceError(errMissingDestination, issue.MissingDestinationId))
	}
	return nil
}

// requireWatchInputs additionally needs at least one root to watch.
func (s runSettings) requireWatchInputs() error {
	if err := s.requireGenerateInputs(); err != nil {
		return err
	}
	if len(s.roots) == 0 {
		return usageError(newServiceError(errNoSourceRoots, issue.NoSourceRootsId))
	}
	return nil
}

func (s runSettings) request() CatalogRequest {
	return CatalogRequest{
		Request: catalog.Request{
			SourceRoots: s.roots,
			Destination: s.destination,
			Namespace:   s.namespace,
		},
		Excludes: s.excludes,
		Verbose:  s.verbose,
	}
}

func addCatalogFlags(cmd *cobra.Command, flags *catalogFlagValues) {
	cmd.Flags().StringArrayVarP(&flags.sources, "source", "s", nil, "source root to search (repeatable)")
	cmd.Flags().StringVarP(&flags.namespace, "namespace", "n", "", "dotted namespace to keep (e.g. com.foo)")
	cmd.Flags().StringArrayVar(&flags.excludes, "exclude", nil, "doublestar glob of paths to skip (repeatable)")
}
