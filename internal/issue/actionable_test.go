// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "scan source root"},
			want: "failed to scan source root",
		},
		{
			name: "with resource",
			err:  &ActionableError{Operation: "scan source root", Resource: "/src/main/resources"},
			want: "failed to scan source root: /src/main/resources",
		},
		{
			name: "with resource and cause",
			err: &ActionableError{
				Operation: "write catalog manifest",
				Resource:  "/out/com/foo/restspecs.rs",
				Cause:     fs.ErrPermission,
			},
			want: "failed to write catalog manifest: /out/com/foo/restspecs.rs: permission denied",
		},
		{
			name: "cause without resource",
			err:  &ActionableError{Operation: "load configuration", Cause: errors.New("bad field")},
			want: "failed to load configuration: bad field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("read directory /src/com/locked: %w", fs.ErrPermission)
	err := &ActionableError{
		Operation:   "scan source root",
		Resource:    "/src",
		Suggestions: []string{"Check the permissions", "Use --exclude"},
		Cause:       cause,
	}

	short := err.Format(false)
	if !strings.HasPrefix(short, err.Error()) {
		t.Errorf("Format(false) should start with Error(), got %q", short)
	}
	for _, s := range err.Suggestions {
		if !strings.Contains(short, "  • "+s) {
			t.Errorf("Format(false) missing suggestion %q", s)
		}
	}
	if strings.Contains(short, "Error chain") {
		t.Error("Format(false) should not list the error chain")
	}

	long := err.Format(true)
	for _, want := range []string{
		"Error chain:",
		"1. read directory /src/com/locked: permission denied",
		"2. permission denied",
	} {
		if !strings.Contains(long, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, long)
		}
	}
}

func TestActionableError_FormatWithoutCause(t *testing.T) {
	t.Parallel()

	err := &ActionableError{Operation: "create namespace directory"}
	if got := err.Format(true); got != "failed to create namespace directory" {
		t.Errorf("Format(true) = %q", got)
	}
}

func TestErrorContext_BuildError(t *testing.T) {
	t.Parallel()

	cause := errors.New("rename failed")
	ctx := NewErrorContext().
		WithOperation("write catalog manifest").
		WithResource("/out/com/foo/restspecs.rs").
		WithSuggestion("Check that the destination directory is writable").
		WithSuggestion("Remove the directory named restspecs.rs").
		Wrap(cause)

	err := ctx.BuildError()
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("BuildError() = %T, want *ActionableError", err)
	}
	if ae.Operation != "write catalog manifest" || ae.Resource != "/out/com/foo/restspecs.rs" {
		t.Errorf("built %+v", ae)
	}
	if len(ae.Suggestions) != 2 {
		t.Errorf("Suggestions = %v, want 2 entries", ae.Suggestions)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}

	// Later suggestions must not leak into an error that was already built.
	ctx.WithSuggestion("third")
	if len(ae.Suggestions) != 2 {
		t.Errorf("Suggestions changed after build: %v", ae.Suggestions)
	}
}

func TestErrorContext_BuildErrorWithoutOperation(t *testing.T) {
	t.Parallel()

	if err := NewErrorContext().WithResource("/src").Wrap(errors.New("x")).BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}
}

func TestOperationOf(t *testing.T) {
	t.Parallel()

	scan := NewErrorContext().WithOperation("scan source root").Wrap(fs.ErrPermission).BuildError()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"direct", scan, "scan source root"},
		{"wrapped", fmt.Errorf("catalog: %w", scan), "scan source root"},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := OperationOf(tt.err); got != tt.want {
				t.Errorf("OperationOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
