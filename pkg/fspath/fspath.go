// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, so source roots and destination
// roots stay typed from the CLI flags down to the catalog generator.
package fspath

import (
	"fmt"
	"path/filepath"

	"github.com/restspecs/restspecs/pkg/types"
)

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments. Use this when joining a validated path with literal constants
// (e.g., "restspecs.rs") or OS-provided file names (e.g., from a directory listing).
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Abs wraps filepath.Abs for FilesystemPath. Returns an error if the
// underlying OS call fails.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// AbsAll resolves every path with Abs, stopping at the first failure.
func AbsAll(paths []types.FilesystemPath) ([]types.FilesystemPath, error) {
	out := make([]types.FilesystemPath, 0, len(paths))
	for _, p := range paths {
		abs, err := Abs(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, abs)
	}
	return out, nil
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// Rel wraps filepath.Rel. The result is a plain OS-relative string because it
// no longer names a location on its own.
func Rel(base, target types.FilesystemPath) (string, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", fmt.Errorf("relativizing %s against %s: %w", target, base, err)
	}
	return rel, nil
}
