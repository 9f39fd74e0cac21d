// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ResourcePathSeparator is the separator used inside a ResourcePath on every platform.
const ResourcePathSeparator = "/"

// ErrInvalidResourcePath is the sentinel error wrapped by InvalidResourcePathError.
var ErrInvalidResourcePath = errors.New("invalid resource path")

type (
	// ResourcePath is the canonical, root-independent identifier of a
	// specification file: "/seg/seg/file.spec.json". Two files under different
	// source roots with equal ResourcePaths are the same catalog entry.
	ResourcePath string

	// InvalidResourcePathError is returned when a ResourcePath is not rooted
	// with a single "/" or contains an empty or relative segment.
	InvalidResourcePathError struct {
		Value ResourcePath
	}
)

// String returns the string representation of the ResourcePath.
func (p ResourcePath) String() string { return string(p) }

// Validate returns an error unless the path starts with exactly one "/"
// and every segment after it is a real name: no empty, "." or ".." segments.
func (p ResourcePath) Validate() error {
	rest, ok := strings.CutPrefix(string(p), ResourcePathSeparator)
	if !ok || rest == "" {
		return &InvalidResourcePathError{Value: p}
	}
	for seg := range strings.SplitSeq(rest, ResourcePathSeparator) {
		if seg == "" || seg == "." || seg == ".." {
			return &InvalidResourcePathError{Value: p}
		}
	}
	return nil
}

// Relative returns the path without its leading separator.
func (p ResourcePath) Relative() string {
	return strings.TrimPrefix(string(p), ResourcePathSeparator)
}

// Error implements the error interface for InvalidResourcePathError.
func (e *InvalidResourcePathError) Error() string {
	return fmt.Sprintf("invalid resource path %q: must start with a single %q followed by named segments", e.Value, ResourcePathSeparator)
}

// Unwrap returns ErrInvalidResourcePath for errors.Is() compatibility.
func (e *InvalidResourcePathError) Unwrap() error { return ErrInvalidResourcePath }
