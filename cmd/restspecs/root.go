// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/restspecs/restspecs/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	verbose    bool
	configPath string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootFlags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "restspecs",
		Short: "Generate REST specification catalog manifests",
		Long: TitleStyle.Render("restspecs") + SubtitleStyle.Render(" - REST specification catalog generator") + `

restspecs searches one or more source roots for ` + PathStyle.Render("*.spec.json") + ` files,
keeps the ones under a dotted namespace and writes their resource paths to
<destination>/<namespace-as-path>/restspecs.rs, one per line.

` + SubtitleStyle.Render("Examples:") + `
  restspecs generate -s src/main/resources -d target/classes -n com.foo
  restspecs list -s src/main/resources -n com.foo
  restspecs generate --watch
  restspecs config init`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "config file (default is ./restspecs.cue)")

	rootCmd.AddCommand(newGenerateCommand(app, rootFlags))
	rootCmd.AddCommand(newListCommand(app, rootFlags))
	rootCmd.AddCommand(newConfigCommand(app, rootFlags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command with the production App. It is called by main.main.
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗"), err)
		os.Exit(int(types.ExitFailure))
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}
