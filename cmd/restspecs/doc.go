// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the restspecs CLI commands.
//
// The root command is built by NewRootCommand around an App, which carries
// the configuration provider, the catalog service and the output writers.
// Execute wires the production App and runs the tree through fang.
package cmd
