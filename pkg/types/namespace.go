// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/restspecs/restspecs/pkg/platform"
)

// NamespaceSeparator separates the segments of a dotted namespace.
const NamespaceSeparator = "."

// ErrInvalidNamespace is the sentinel error wrapped by InvalidNamespaceError.
var ErrInvalidNamespace = errors.New("invalid namespace")

type (
	// Namespace is a dotted identifier such as "com.foo". It selects both the
	// manifest's destination subdirectory and the directory a specification
	// must live under to be cataloged.
	Namespace string

	// InvalidNamespaceError is returned when a Namespace cannot be mapped onto
	// a directory path. Segment is the offending segment when one could be
	// identified.
	InvalidNamespaceError struct {
		Value   Namespace
		Segment string
		Reason  string
	}
)

// String returns the string representation of the Namespace.
func (n Namespace) String() string { return string(n) }

// Segments splits the namespace on dots. It does not validate.
func (n Namespace) Segments() []string {
	return strings.Split(string(n), NamespaceSeparator)
}

// Validate fails when the namespace is empty, has empty segments (leading,
// trailing or doubled dots), or a segment that cannot be a directory name.
func (n Namespace) Validate() error {
	if n == "" {
		return &InvalidNamespaceError{Value: n, Reason: "must not be empty"}
	}
	for _, seg := range n.Segments() {
		if seg == "" {
			return &InvalidNamespaceError{Value: n, Reason: "must not contain empty segments"}
		}
		if reason := invalidSegmentReason(seg); reason != "" {
			return &InvalidNamespaceError{Value: n, Segment: seg, Reason: reason}
		}
	}
	return nil
}

// Dir returns the namespace as a relative OS path ("com.foo" -> "com/foo").
func (n Namespace) Dir() string {
	return filepath.Join(n.Segments()...)
}

// Prefix returns the slash-separated directory prefix, with a trailing "/",
// that a resource path (minus its leading "/") must start with to belong to
// this namespace. The trailing separator keeps "com.foo" from matching
// "com/foobar/...".
func (n Namespace) Prefix() string {
	return strings.Join(n.Segments(), "/") + "/"
}

// Contains reports whether the resource path lies under the namespace directory.
func (n Namespace) Contains(p ResourcePath) bool {
	return strings.HasPrefix(p.Relative(), n.Prefix())
}

// Error implements the error interface for InvalidNamespaceError.
func (e *InvalidNamespaceError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("invalid namespace %q: segment %q %s", e.Value, e.Segment, e.Reason)
	}
	return fmt.Sprintf("invalid namespace %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidNamespace for errors.Is() compatibility.
func (e *InvalidNamespaceError) Unwrap() error { return ErrInvalidNamespace }

func invalidSegmentReason(seg string) string {
	if strings.TrimSpace(seg) != seg {
		return "must not have surrounding whitespace"
	}
	for _, r := range seg {
		if unicode.IsControl(r) {
			return "must not contain control characters"
		}
		if strings.ContainsRune(platform.InvalidPathChars, r) {
			return fmt.Sprintf("must not contain %q", r)
		}
	}
	if platform.IsWindows() && platform.IsWindowsReservedName(seg) {
		return "is a reserved name on Windows"
	}
	return ""
}
