// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/restspecs/restspecs/internal/catalog"
	"github.com/restspecs/restspecs/internal/watch"

	"github.com/spf13/cobra"
)

type generateFlagValues struct {
	catalogFlagValues
	watch bool
	clear bool
}

// newGenerateCommand creates the `restspecs generate` command.
func newGenerateCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &generateFlagValues{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the catalog manifest for a namespace",
		Long: `Write <destination>/<namespace-as-path>/restspecs.rs listing every
*.spec.json resource under the namespace, deduplicated across source roots
and sorted. Flags override values from restspecs.cue and RESTSPECS_* variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, app, rootFlags, flags)
		},
	}

	addCatalogFlags(cmd, &flags.catalogFlagValues)
	cmd.Flags().StringVarP(&flags.destination, "destination", "d", "", "directory the manifest is written under")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "regenerate whenever a specification file changes")
	cmd.Flags().BoolVar(&flags.clear, "clear", false, "clear the terminal before each regeneration (with --watch)")

	return cmd
}

func runGenerate(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *generateFlagValues) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx, app, rootFlags)
	if err != nil {
		return reportError(cmd, app, err, rootFlags.verbose)
	}

	settings, err := resolveSettings(cmd, cfg, rootFlags, &flags.catalogFlagValues)
	if err != nil {
		return reportError(cmd, app, err, rootFlags.verbose)
	}
	if flags.watch {
		if err := settings.requireWatchInputs(); err != nil {
			return reportError(cmd, app, err, settings.verbose)
		}
		return runWatchMode(cmd, app, settings, flags.clear)
	}

	if err := settings.requireGenerateInputs(); err != nil {
		return reportError(cmd, app, err, settings.verbose)
	}

	if err := generateOnce(ctx, app, settings); err != nil {
		return reportError(cmd, app, err, settings.verbose)
	}
	return nil
}

// generateOnce runs one full generation and prints the outcome.
func generateOnce(ctx context.Context, app *App, settings runSettings) error {
	result, err := app.Catalog.Generate(ctx, settings.request())
	if err != nil {
		return classifyCatalogError(err)
	}

	renderDiagnostics(app.stderr, result.Diagnostics)
	printGenerated(app, result)
	return nil
}

func printGenerated(app *App, result *catalog.Result) {
	fmt.Fprintf(app.stdout, "%s Wrote %s (%d entries",
		SuccessStyle.Render("✓"), PathStyle.Render(result.ManifestPath.String()), len(result.Entries))
	if result.Stats.Duplicates > 0 {
		fmt.Fprintf(app.stdout, ", %d duplicate(s) skipped", result.Stats.Duplicates)
	}
	fmt.Fprintln(app.stdout, ")")
}

// runWatchMode generates once, then regenerates on every debounced change
// under the source roots until the context is canceled.
func runWatchMode(cmd *cobra.Command, app *App, settings runSettings, clearScreen bool) error {
	ctx := cmd.Context()
	logger := newLogger(app.stderr, settings.verbose)

	fmt.Fprintf(app.stdout, "%s Watch mode: initial generation for %s\n",
		PathStyle.Render("→"), settings.namespace)
	if err := generateOnce(ctx, app, settings); err != nil {
		// Keep watching; the user may fix the tree and save again.
		fmt.Fprintf(app.stderr, "%s Initial generation failed: %s\n",
			WarningStyle.Render("!"), formatErrorForDisplay(err, settings.verbose))
	}

	w, err := watch.New(watch.Config{
		Roots:       settings.roots,
		Ignore:      settings.excludes,
		Debounce:    settings.debounce,
		ClearScreen: clearScreen,
		OnChange: func(ctx context.Context, changed []string) error {
			logger.Info("regenerating catalog", "changed", changed)
			fmt.Fprintf(app.stdout, "%s Detected %d change(s), regenerating...\n",
				PathStyle.Render("→"), len(changed))
			if err := generateOnce(ctx, app, settings); err != nil {
				fmt.Fprintf(app.stderr, "%s Generation failed: %s\n",
					WarningStyle.Render("!"), formatErrorForDisplay(err, settings.verbose))
			}
			return nil
		},
		Stdout: app.stdout,
		Logger: logger,
	})
	if err != nil {
		return reportError(cmd, app, fmt.Errorf("failed to start watcher: %w", err), settings.verbose)
	}

	fmt.Fprintf(app.stdout, "\n%s Watching %d source root(s) (Ctrl+C to stop)...\n\n",
		PathStyle.Render("→"), len(w.Roots()))
	if err := w.Run(ctx); err != nil {
		return reportError(cmd, app, err, settings.verbose)
	}
	return nil
}
