// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/restspecs/restspecs/internal/testutil"

	"github.com/spf13/afero"
)

// collect ranges over a scan and returns the yielded paths relative to root,
// slash-separated and sorted.
func collect(t *testing.T, s *Scanner, root string) []string {
	t.Helper()
	var got []string
	for entry, err := range s.Scan(root) {
		if err != nil {
			t.Fatalf("Scan() yielded error: %v", err)
		}
		rel, err := filepath.Rel(root, entry.Path)
		if err != nil {
			t.Fatal(err)
		}
		if entry.Name != filepath.Base(entry.Path) {
			t.Errorf("Entry.Name = %q, want %q", entry.Name, filepath.Base(entry.Path))
		}
		got = append(got, filepath.ToSlash(rel))
	}
	slices.Sort(got)
	return got
}

func TestScanner_YieldsRegularFilesOnly(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.SeedTree(t, fs, "/src",
		"customers.spec.json",
		"com/foo/bar/baz/whoosh.spec.json",
		"com/package/this.here.file.json/",
		"not-a-spec-at-all.txt/",
		"empty/dir/",
		"notes.txt",
	)

	s, err := NewScanner(fs)
	if err != nil {
		t.Fatal(err)
	}

	got := collect(t, s, "/src")
	want := []string{"com/foo/bar/baz/whoosh.spec.json", "customers.spec.json", "notes.txt"}
	if !slices.Equal(got, want) {
		t.Errorf("Scan() = %v, want %v", got, want)
	}
}

func TestScanner_MissingRoot(t *testing.T) {
	t.Parallel()

	s, err := NewScanner(afero.NewMemMapFs())
	if err != nil {
		t.Fatal(err)
	}

	for entry, err := range s.Scan("/does/not/exist") {
		t.Errorf("missing root yielded entry=%v err=%v", entry, err)
	}
}

func TestScanner_RootIsFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.SeedTree(t, fs, "/", "a.spec.json")

	s, err := NewScanner(fs)
	if err != nil {
		t.Fatal(err)
	}
	if got := collect(t, s, "/a.spec.json"); len(got) != 0 {
		t.Errorf("file root yielded %v, want nothing", got)
	}
}

func TestScanner_Excludes(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.SeedTree(t, fs, "/src",
		"com/foo/a.spec.json",
		"com/foo/generated/b.spec.json",
		"com/foo/c.spec.json.orig",
		"vendor/com/foo/d.spec.json",
	)

	s, err := NewScanner(fs, "vendor", "**/generated", "**/*.orig")
	if err != nil {
		t.Fatal(err)
	}

	got := collect(t, s, "/src")
	if want := []string{"com/foo/a.spec.json"}; !slices.Equal(got, want) {
		t.Errorf("Scan() = %v, want %v", got, want)
	}
}

func TestNewScanner_InvalidPattern(t *testing.T) {
	t.Parallel()

	if _, err := NewScanner(afero.NewMemMapFs(), "[unclosed"); err == nil {
		t.Fatal("NewScanner() should reject an invalid pattern")
	}
}

func TestScanner_EarlyStop(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.SeedTree(t, fs, "/src", "a/1.spec.json", "b/2.spec.json", "c/3.spec.json")

	s, err := NewScanner(fs)
	if err != nil {
		t.Fatal(err)
	}

	n := 0
	for range s.Scan("/src") {
		n++
		break
	}
	if n != 1 {
		t.Errorf("consumer saw %d entries after break, want 1", n)
	}
}

func TestScanner_Restartable(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.SeedTree(t, fs, "/src", "a.spec.json", "b/c.spec.json")

	s, err := NewScanner(fs)
	if err != nil {
		t.Fatal(err)
	}

	first := collect(t, s, "/src")
	second := collect(t, s, "/src")
	if !slices.Equal(first, second) {
		t.Errorf("second scan = %v, first = %v", second, first)
	}
}

func TestScanner_FollowsSymlinks(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs elevated privileges on Windows")
	}

	base := t.TempDir()
	root := filepath.Join(base, "src")
	shared := filepath.Join(base, "shared")
	testutil.MustTouch(t, filepath.Join(root, "com", "foo", "a.spec.json"))
	testutil.MustTouch(t, filepath.Join(shared, "b.spec.json"))

	testutil.MustSymlink(t, shared, filepath.Join(root, "com", "foo", "linked"))
	testutil.MustSymlink(t, filepath.Join(shared, "b.spec.json"), filepath.Join(root, "alias.spec.json"))
	testutil.MustSymlink(t, filepath.Join(base, "gone"), filepath.Join(root, "dangling.spec.json"))

	s, err := NewScanner(afero.NewOsFs())
	if err != nil {
		t.Fatal(err)
	}

	got := collect(t, s, root)
	want := []string{"alias.spec.json", "com/foo/a.spec.json", "com/foo/linked/b.spec.json"}
	if !slices.Equal(got, want) {
		t.Errorf("Scan() = %v, want %v", got, want)
	}
}

func TestScanner_SymlinkCycle(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs elevated privileges on Windows")
	}

	root := t.TempDir()
	testutil.MustTouch(t, filepath.Join(root, "com", "foo", "a.spec.json"))
	testutil.MustSymlink(t, root, filepath.Join(root, "com", "foo", "loop"))
	testutil.MustSymlink(t, filepath.Join(root, "com"), filepath.Join(root, "com", "foo", "up"))

	s, err := NewScanner(afero.NewOsFs())
	if err != nil {
		t.Fatal(err)
	}

	got := collect(t, s, root)
	if want := []string{"com/foo/a.spec.json"}; !slices.Equal(got, want) {
		t.Errorf("Scan() = %v, want %v", got, want)
	}
}

func TestScanner_UnreadableDirectory(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	testutil.MustTouch(t, filepath.Join(locked, "x.spec.json"))
	testutil.MustTouch(t, filepath.Join(root, "open", "y.spec.json"))
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	s, err := NewScanner(afero.NewOsFs())
	if err != nil {
		t.Fatal(err)
	}

	var (
		errs  []error
		found []string
	)
	for entry, err := range s.Scan(root) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		found = append(found, entry.Name)
	}

	if len(errs) != 1 || !errors.Is(errs[0], os.ErrPermission) {
		t.Errorf("Scan() errors = %v, want one permission error", errs)
	}
	if !slices.Equal(found, []string{"y.spec.json"}) {
		t.Errorf("Scan() should continue past the unreadable directory, got %v", found)
	}
}
