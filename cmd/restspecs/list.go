// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newListCommand creates the `restspecs list` command.
func newListCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &catalogFlagValues{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the catalog for a namespace without writing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(ctx, app, rootFlags)
			if err != nil {
				return reportError(cmd, app, err, rootFlags.verbose)
			}
			settings, err := resolveSettings(cmd, cfg, rootFlags, flags)
			if err != nil {
				return reportError(cmd, app, err, rootFlags.verbose)
			}
			if err := settings.requireScanInputs(); err != nil {
				return reportError(cmd, app, err, settings.verbose)
			}

			result, err := app.Catalog.Assemble(ctx, settings.request())
			if err != nil {
				return reportError(cmd, app, classifyCatalogError(err), settings.verbose)
			}

			renderDiagnostics(app.stderr, result.Diagnostics)
			for _, entry := range result.Entries {
				fmt.Fprintln(app.stdout, entry)
			}
			return nil
		},
	}

	addCatalogFlags(cmd, flags)
	return cmd
}
