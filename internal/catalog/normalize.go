// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/restspecs/restspecs/pkg/fspath"
	"github.com/restspecs/restspecs/pkg/types"
)

// ErrNotBeneathRoot is returned by ResourcePathFor when the file is the root
// itself or lies outside of it.
var ErrNotBeneathRoot = errors.New("path is not beneath source root")

// ResourcePathFor converts a file below root into its canonical resource
// path: the root-relative path with every OS separator replaced by "/",
// prefixed with a single "/". The same relative path yields the same
// resource path under any root.
func ResourcePathFor(root, file string) (types.ResourcePath, error) {
	rel, err := fspath.Rel(types.FilesystemPath(root), types.FilesystemPath(file))
	if err != nil {
		return "", err
	}
	p := types.ResourcePath(types.ResourcePathSeparator + filepath.ToSlash(rel))
	if err := p.Validate(); err != nil {
		return "", fmt.Errorf("%w: %s (root %s): %w", ErrNotBeneathRoot, file, root, err)
	}
	return p, nil
}
