// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the path involved and
// remediation hints for a catalog run. Issue holds Markdown help pages for the
// failures a user can fix themselves (missing namespace, unwritable
// destination, broken config), rendered with glamour by the CLI.
package issue
