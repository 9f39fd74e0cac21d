// SPDX-License-Identifier: MPL-2.0

package issue_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/restspecs/restspecs/internal/catalog"
	"github.com/restspecs/restspecs/internal/issue"
	"github.com/restspecs/restspecs/internal/testutil"
	"github.com/restspecs/restspecs/pkg/types"

	"github.com/spf13/afero"
)

// lockedDirFs refuses to open one directory, standing in for a directory
// the current user cannot read.
type lockedDirFs struct {
	afero.Fs
	locked string
}

func (l *lockedDirFs) Open(name string) (afero.File, error) {
	if filepath.Clean(name) == l.locked {
		return nil, &os.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return l.Fs.Open(name)
}

func TestCatalogScanFailureIsActionable(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	testutil.SeedTree(t, mem, "/src", "com/foo/a.spec.json", "com/locked/b.spec.json")
	locked := filepath.Join("/src", "com", "locked")

	gen, err := catalog.New(catalog.WithFs(&lockedDirFs{Fs: mem, locked: locked}))
	if err != nil {
		t.Fatal(err)
	}

	_, err = gen.Generate(t.Context(), catalog.Request{
		SourceRoots: []types.FilesystemPath{"/src"},
		Destination: "/out",
		Namespace:   "com.foo",
	})
	if err == nil {
		t.Fatal("Generate() should fail when a directory below a root cannot be read")
	}

	if got := issue.OperationOf(err); got != catalog.OpScanSourceRoot {
		t.Errorf("OperationOf() = %q, want %q", got, catalog.OpScanSourceRoot)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("error should wrap the permission failure: %v", err)
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %T, want *issue.ActionableError", err)
	}
	if ae.Resource != filepath.Clean("/src") {
		t.Errorf("Resource = %q, want the source root", ae.Resource)
	}
	formatted := ae.Format(true)
	for _, want := range []string{"failed to scan source root", "--exclude", locked} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, formatted)
		}
	}

	if _, statErr := mem.Stat("/out"); !errors.Is(statErr, fs.ErrNotExist) {
		t.Errorf("nothing should be written after a scan failure, stat err = %v", statErr)
	}
}

func TestCatalogManifestWriteFailureIsActionable(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(dest, "com", "foo", catalog.ManifestFileName, "child"), 0o755)

	src := t.TempDir()
	testutil.MustTouch(t, filepath.Join(src, "com", "foo", "a.spec.json"))

	err := catalog.GenerateCatalog([]string{src}, dest, "com.foo")
	if err == nil {
		t.Fatal("GenerateCatalog() should fail when a directory occupies the manifest path")
	}

	if got := issue.OperationOf(err); got != catalog.OpWriteManifest {
		t.Errorf("OperationOf() = %q, want %q", got, catalog.OpWriteManifest)
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %T, want *issue.ActionableError", err)
	}
	wantPath := filepath.Join(dest, "com", "foo", catalog.ManifestFileName)
	if ae.Resource != wantPath {
		t.Errorf("Resource = %q, want %q", ae.Resource, wantPath)
	}
	if len(ae.Suggestions) == 0 {
		t.Error("manifest write failures should carry suggestions")
	}
	if page := issue.Get(issue.ManifestWriteFailedId); page == nil || !strings.Contains(string(page.MarkdownMsg()), "restspecs.rs") {
		t.Error("the manifest write help page should mention restspecs.rs")
	}
}
