// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"slices"

	"github.com/restspecs/restspecs/pkg/types"

	"golang.org/x/exp/maps"
)

// Catalog is a set of resource paths. Adding a path that is already present
// is a no-op, which is what collapses the same specification found under
// several source roots into one entry.
type Catalog struct {
	entries map[types.ResourcePath]struct{}
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[types.ResourcePath]struct{})}
}

// Add inserts p and reports whether it was not already present.
func (c *Catalog) Add(p types.ResourcePath) bool {
	if _, ok := c.entries[p]; ok {
		return false
	}
	c.entries[p] = struct{}{}
	return true
}

// Contains reports whether p is in the catalog.
func (c *Catalog) Contains(p types.ResourcePath) bool {
	_, ok := c.entries[p]
	return ok
}

// Len returns the number of distinct resource paths.
func (c *Catalog) Len() int { return len(c.entries) }

// Filter returns a new Catalog holding only the paths under ns's directory.
func (c *Catalog) Filter(ns types.Namespace) *Catalog {
	out := NewCatalog()
	for p := range c.entries {
		if ns.Contains(p) {
			out.entries[p] = struct{}{}
		}
	}
	return out
}

// Paths returns the resource paths in ascending byte order.
func (c *Catalog) Paths() []types.ResourcePath {
	paths := maps.Keys(c.entries)
	slices.Sort(paths)
	return paths
}
