// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"bufio"
	"fmt"

	"github.com/restspecs/restspecs/internal/issue"
	"github.com/restspecs/restspecs/pkg/fspath"
	"github.com/restspecs/restspecs/pkg/types"

	"github.com/spf13/afero"
)

const (
	// ManifestFileName is the fixed name of the generated manifest.
	ManifestFileName = "restspecs.rs"

	manifestPerm = 0o644
	dirPerm      = 0o755
)

// Writer writes manifests to a filesystem.
type Writer struct {
	fs afero.Fs
}

// NewWriter creates a Writer over fsys.
func NewWriter(fsys afero.Fs) *Writer {
	return &Writer{fs: fsys}
}

// ManifestDir returns <dest>/<namespace-as-path>.
func ManifestDir(dest types.FilesystemPath, ns types.Namespace) types.FilesystemPath {
	return fspath.JoinStr(dest, ns.Dir())
}

// ManifestPath returns <dest>/<namespace-as-path>/restspecs.rs.
func ManifestPath(dest types.FilesystemPath, ns types.Namespace) types.FilesystemPath {
	return fspath.JoinStr(ManifestDir(dest, ns), ManifestFileName)
}

// Write creates the namespace directory under dest if needed and replaces
// restspecs.rs in it with one line per path. The content is staged in a
// temporary file in the same directory and renamed into place, so the
// manifest is either the previous one or the complete new one. The paths
// are written in the order given.
func (w *Writer) Write(dest types.FilesystemPath, ns types.Namespace, paths []types.ResourcePath) (types.FilesystemPath, error) {
	dir := ManifestDir(dest, ns)
	target := ManifestPath(dest, ns)

	if err := w.fs.MkdirAll(string(dir), dirPerm); err != nil {
		return "", writeFailure(OpCreateNamespaceDir, dir, err)
	}

	tmp, err := afero.TempFile(w.fs, string(dir), "."+ManifestFileName+"-*")
	if err != nil {
		return "", writeFailure(OpWriteManifest, target, err)
	}
	tmpName := tmp.Name()

	if err := writeLines(tmp, paths); err != nil {
		_ = tmp.Close()
		_ = w.fs.Remove(tmpName)
		return "", writeFailure(OpWriteManifest, target, err)
	}
	if err := tmp.Close(); err != nil {
		_ = w.fs.Remove(tmpName)
		return "", writeFailure(OpWriteManifest, target, err)
	}
	if err := w.fs.Chmod(tmpName, manifestPerm); err != nil {
		_ = w.fs.Remove(tmpName)
		return "", writeFailure(OpWriteManifest, target, err)
	}
	if err := w.fs.Rename(tmpName, string(target)); err != nil {
		_ = w.fs.Remove(tmpName)
		return "", writeFailure(OpWriteManifest, target, err)
	}

	return target, nil
}

func writeLines(f afero.File, paths []types.ResourcePath) error {
	bw := bufio.NewWriter(f)
	for _, p := range paths {
		if _, err := bw.WriteString(string(p)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush manifest: %w", err)
	}
	return nil
}

func writeFailure(op string, path types.FilesystemPath, err error) error {
	return issue.NewErrorContext().
		WithOperation(op).
		WithResource(string(path)).
		WithSuggestion("Check that the destination directory is writable").
		WithSuggestion("Check that no regular file sits where a namespace directory is expected").
		Wrap(err).
		BuildError()
}
