// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

type (
	// ActionableError reports a failed catalog step: the operation, the path
	// it was working on and what the user can do about it.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("write catalog manifest").
	//		WithResource("target/classes/com/foo/restspecs.rs").
	//		WithSuggestion("Check that the destination directory is writable").
	//		Wrap(renameErr).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "scan source root".
		Operation string
		// Resource is the path involved, if any.
		Resource string
		// Suggestions are remediation hints, printed one per line.
		Suggestions []string
		// Cause is the underlying error, if any.
		Cause error
	}

	// ErrorContext accumulates the parts of an ActionableError.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewErrorContext starts an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// OperationOf returns the Operation of the first ActionableError in err's
// chain, or "" when there is none.
func OperationOf(err error) string {
	var ae *ActionableError
	if errors.As(err, &ae) {
		return ae.Operation
	}
	return ""
}

// Error renders "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns Cause.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format returns Error followed by a bulleted suggestion list. With verbose
// set, every error below Cause is listed too, outermost first.
func (e *ActionableError) Format(verbose bool) string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n")
		for _, s := range e.Suggestions {
			sb.WriteString("\n  • " + s)
		}
	}

	if !verbose || e.Cause == nil {
		return sb.String()
	}

	sb.WriteString("\n\nError chain:")
	for depth, err := 1, e.Cause; err != nil; depth, err = depth+1, errors.Unwrap(err) {
		fmt.Fprintf(&sb, "\n  %d. %s", depth, err)
	}
	return sb.String()
}

// WithOperation sets the failed operation.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the path involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends a remediation hint.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// Wrap sets the underlying error.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// BuildError returns the ActionableError, or nil when no operation was set.
func (c *ErrorContext) BuildError() error {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: slices.Clone(c.suggestions),
		Cause:       c.cause,
	}
}
