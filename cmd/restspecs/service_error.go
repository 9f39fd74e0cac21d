// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/restspecs/restspecs/internal/catalog"
	"github.com/restspecs/restspecs/internal/issue"
	"github.com/restspecs/restspecs/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// ServiceError is an error that carries an optional help page for the CLI
// layer. Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError prints the issue help page, if any.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil || svcErr.IssueID == 0 {
		return
	}

	if entry := issue.Get(svcErr.IssueID); entry != nil {
		rendered, err := entry.Render("dark")
		if err != nil {
			log.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", err)
			return
		}
		fmt.Fprint(stderr, rendered)
	}
}

// classifyCatalogError attaches a help page and exit code to a catalog error.
func classifyCatalogError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, types.ErrInvalidNamespace):
		return usageError(newServiceError(err, issue.InvalidNamespaceId))
	case errors.Is(err, types.ErrInvalidFilesystemPath):
		return usageError(err)
	}

	switch issue.OperationOf(err) {
	case catalog.OpScanSourceRoot:
		return failure(newServiceError(err, issue.SourceScanFailedId))
	case catalog.OpCreateNamespaceDir, catalog.OpWriteManifest:
		return failure(newServiceError(err, issue.ManifestWriteFailedId))
	}
	return failure(err)
}

// reportError renders err on stderr and returns a bare ExitError so fang
// does not print it again.
func reportError(cmd *cobra.Command, app *App, err error, verbose bool) error {
	if err == nil {
		return nil
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(app.stderr, svcErr)
	}
	fmt.Fprintf(app.stderr, "%s %s\n", ErrorStyle.Render("✗"), formatErrorForDisplay(err, verbose))

	code := types.ExitFailure
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: code}
}

// formatErrorForDisplay uses ActionableError.Format when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderDiagnostics prints non-fatal catalog findings to stderr.
func renderDiagnostics(stderr io.Writer, diags []catalog.Diagnostic) {
	for _, diag := range diags {
		prefix := WarningStyle.Render(string(diag.Severity))
		if diag.Path != "" {
			fmt.Fprintf(stderr, "%s: %s (%s)\n", prefix, diag.Message, PathStyle.Render(diag.Path.String()))
			continue
		}
		fmt.Fprintf(stderr, "%s: %s\n", prefix, diag.Message)
	}
}
