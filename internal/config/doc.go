// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is read from the file named by --config or, when that flag is
// absent, from ./restspecs.cue if it exists. Values are validated against an
// embedded CUE schema (config_schema.cue) and can be overridden by
// RESTSPECS_* environment variables. Without a file the defaults apply.
package config
