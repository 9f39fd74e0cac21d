// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/restspecs/restspecs/internal/config"
	"github.com/restspecs/restspecs/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `restspecs config` command tree.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage restspecs configuration",
		Long: `Manage restspecs configuration.

Configuration is read from the --config file, else ./restspecs.cue, else
built-in defaults. RESTSPECS_* environment variables override file values
(e.g. RESTSPECS_NAMESPACE, RESTSPECS_WATCH_DEBOUNCE).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := showConfig(cmd.Context(), app, rootFlags); err != nil {
				return reportError(cmd, app, err, rootFlags.verbose)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context(), app, rootFlags)
			if err != nil {
				return reportError(cmd, app, err, rootFlags.verbose)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file that would be read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.ResolvePath(config.LoadOptions{
				ConfigFilePath: types.FilesystemPath(rootFlags.configPath),
			})
			if err != nil {
				return reportError(cmd, app, failure(err), rootFlags.verbose)
			}
			if path == "" {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(using defaults)"))
				return nil
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Create a default restspecs.cue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigFileName + "." + config.ConfigFileExt
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return reportError(cmd, app, usageError(err), rootFlags.verbose)
				}
				return reportError(cmd, app, err, rootFlags.verbose)
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n",
				SuccessStyle.Render("✓"), PathStyle.Render(path))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, rootFlags *rootFlagValues) error {
	cfg, err := loadConfig(ctx, app, rootFlags)
	if err != nil {
		return err
	}

	keyStyle := PathStyle
	valueStyle := SuccessStyle
	none := SubtitleStyle.Render("(not set)")

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	source := SubtitleStyle.Render("(using defaults)")
	if path, pathErr := config.ResolvePath(config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(rootFlags.configPath),
	}); pathErr == nil && path != "" {
		source = path
	}
	fmt.Fprintf(app.stdout, "%s: %s\n\n", keyStyle.Render("Config file"), source)

	printList := func(key string, values []string) {
		fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render(key))
		if len(values) == 0 {
			fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(none configured)"))
			return
		}
		for _, v := range values {
			fmt.Fprintf(app.stdout, "  - %s\n", valueStyle.Render(v))
		}
	}
	printScalar := func(key, value string) {
		if strings.TrimSpace(value) == "" {
			fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render(key), none)
			return
		}
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render(key), valueStyle.Render(value))
	}

	printList("source_roots", cfg.SourceRoots)
	printScalar("destination", cfg.Destination)
	printScalar("namespace", cfg.Namespace)
	printList("exclude", cfg.Exclude)
	printScalar("verbose", fmt.Sprintf("%v", cfg.Verbose))
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(app.stdout, "  debounce: %s\n", valueStyle.Render(cfg.Watch.Debounce))

	return nil
}
