// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// MustChdir changes the current working directory to dir.
// It returns a cleanup function that restores the original directory.
// The test fails immediately if the directory change fails.
func MustChdir(t testing.TB, dir string) func() {
	t.Helper()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	return func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Errorf("failed to restore directory to %s: %v", originalWd, err)
		}
	}
}

// MustSetenv sets the environment variable key to value.
// It returns a cleanup function that restores the original value (or unsets it).
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	originalValue, hadValue := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	return func() {
		if hadValue {
			if err := os.Setenv(key, originalValue); err != nil {
				t.Errorf("failed to restore env %s: %v", key, err)
			}
		} else {
			if err := os.Unsetenv(key); err != nil {
				t.Errorf("failed to unset env %s: %v", key, err)
			}
		}
	}
}

// MustMkdirAll creates a directory along with any necessary parents.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustTouch creates an empty file at path on the OS filesystem, creating
// missing parent directories.
func MustTouch(t testing.TB, path string) {
	t.Helper()
	SeedTree(t, afero.NewOsFs(), filepath.Dir(path), filepath.Base(path))
}

// MustSymlink creates newname as a symbolic link to oldname. The test is
// skipped where the platform or the current user cannot create symlinks.
func MustSymlink(t testing.TB, oldname, newname string) {
	t.Helper()
	if err := os.Symlink(oldname, newname); err != nil {
		if runtime.GOOS == "windows" {
			t.Skipf("symlinks unavailable: %v", err)
		}
		t.Fatalf("failed to symlink %s -> %s: %v", newname, oldname, err)
	}
}

// SeedTree creates the given slash-separated entries below root on fsys.
// An entry ending in "/" becomes a directory; any other entry becomes an
// empty regular file. Parent directories are created as needed.
//
//	testutil.SeedTree(t, fs, "/src", "com/foo/a.spec.json", "com/package/x.json/")
func SeedTree(t testing.TB, fsys afero.Fs, root string, entries ...string) {
	t.Helper()
	for _, e := range entries {
		p := filepath.Join(root, filepath.FromSlash(e))
		if strings.HasSuffix(e, "/") {
			if err := fsys.MkdirAll(p, 0o755); err != nil {
				t.Fatalf("failed to create directory %s: %v", p, err)
			}
			continue
		}
		if err := fsys.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("failed to create directory %s: %v", filepath.Dir(p), err)
		}
		if err := afero.WriteFile(fsys, p, nil, 0o644); err != nil {
			t.Fatalf("failed to create file %s: %v", p, err)
		}
	}
}

// ReadLines returns the newline-terminated lines of the file at path on fsys.
func ReadLines(t testing.TB, fsys afero.Fs, path string) []string {
	t.Helper()
	f, err := fsys.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return lines
}
