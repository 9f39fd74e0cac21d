// SPDX-License-Identifier: MPL-2.0

package catalog

import "github.com/restspecs/restspecs/pkg/types"

const (
	// SeverityWarning indicates a recoverable catalog warning.
	SeverityWarning Severity = "warning"

	// CodeSourceRootMissing marks a source root that does not exist.
	CodeSourceRootMissing = "source_root_missing"
	// CodeSourceRootNotDirectory marks a source root that exists but is not a directory.
	CodeSourceRootNotDirectory = "source_root_not_directory"
	// CodeNoSourceRoots marks a run given no source roots at all.
	CodeNoSourceRoots = "no_source_roots"

	// OpScanSourceRoot is the ActionableError operation for walk failures.
	OpScanSourceRoot = "scan source root"
	// OpCreateNamespaceDir is the ActionableError operation for directory creation failures.
	OpCreateNamespaceDir = "create namespace directory"
	// OpWriteManifest is the ActionableError operation for manifest write failures.
	OpWriteManifest = "write catalog manifest"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal finding of a catalog run. It is returned to
	// callers (rather than written to stderr) so the CLI decides how to render it.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity
		// Code is a machine-readable identifier (e.g., "source_root_missing").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the filesystem path the diagnostic is about.
		Path types.FilesystemPath
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)
