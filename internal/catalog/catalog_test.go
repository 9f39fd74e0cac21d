// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"slices"
	"testing"

	"github.com/restspecs/restspecs/pkg/types"
)

func TestCatalog_AddDeduplicates(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	if !c.Add("/com/foo/a.spec.json") {
		t.Error("first Add() should report a new entry")
	}
	if c.Add("/com/foo/a.spec.json") {
		t.Error("second Add() of the same path should report a duplicate")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if !c.Contains("/com/foo/a.spec.json") {
		t.Error("Contains() = false for an added path")
	}
	if c.Contains("/com/foo/b.spec.json") {
		t.Error("Contains() = true for a path never added")
	}
}

func TestCatalog_PathsSorted(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	for _, p := range []types.ResourcePath{"/com/foo/z.spec.json", "/com/foo/B.spec.json", "/com/foo/a.spec.json", "/com/foo/bar/x.spec.json"} {
		c.Add(p)
	}

	want := []types.ResourcePath{"/com/foo/B.spec.json", "/com/foo/a.spec.json", "/com/foo/bar/x.spec.json", "/com/foo/z.spec.json"}
	if got := c.Paths(); !slices.Equal(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
}

func TestCatalog_FilterSegmentBoundary(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	for _, p := range []types.ResourcePath{
		"/com/foo/bar/baz/whoosh.spec.json",
		"/com/foo/thisthing.spec.json",
		"/com/foobar/baz/excellent.spec.json",
		"/com/bar/notreally.spec.json",
		"/customers.spec.json",
		"/com/foo.spec.json",
	} {
		c.Add(p)
	}

	got := c.Filter("com.foo").Paths()
	want := []types.ResourcePath{"/com/foo/bar/baz/whoosh.spec.json", "/com/foo/thisthing.spec.json"}
	if !slices.Equal(got, want) {
		t.Errorf("Filter(com.foo) = %v, want %v", got, want)
	}

	if c.Len() != 6 {
		t.Errorf("Filter() must not modify the receiver, Len() = %d", c.Len())
	}
}

func TestCatalog_FilterEmpty(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	c.Add("/com/bar/notreally.spec.json")

	if got := c.Filter("org.example").Len(); got != 0 {
		t.Errorf("Filter() with no matches Len() = %d, want 0", got)
	}
	if got := NewCatalog().Paths(); len(got) != 0 {
		t.Errorf("Paths() of empty catalog = %v, want empty", got)
	}
}
