// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

type (
	// Entry is a regular file found below a source root.
	Entry struct {
		// Path is the file's path, rooted at the scanned source root. For a
		// symlink this is the link's path, not its target's.
		Path string
		// Name is the last element of Path.
		Name string
	}

	// Scanner walks source roots on a filesystem and yields their regular files.
	Scanner struct {
		fs       afero.Fs
		excludes []string
	}

	// dirFrame is a pending directory together with the directories that led
	// to it, used to refuse symlinks that point back at an ancestor.
	dirFrame struct {
		path    string
		lineage []os.FileInfo
	}
)

// NewScanner creates a Scanner over fsys. Excludes are doublestar patterns
// matched against root-relative, slash-separated paths; a matching directory
// is not descended into and a matching file is not yielded.
func NewScanner(fsys afero.Fs, excludes ...string) (*Scanner, error) {
	for _, pat := range excludes {
		if _, err := doublestar.Match(pat, ""); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pat, err)
		}
	}
	return &Scanner{fs: fsys, excludes: slices.Clone(excludes)}, nil
}

// Scan returns a lazy sequence of every regular file beneath root, at any
// depth. Directories and symlinks are traversed but never yielded themselves;
// a symlink to a regular file is yielded under its own path. A root that does
// not exist yields nothing. Directory read failures are yielded as errors and
// the walk continues with the next pending directory unless the consumer stops.
// Each range over the sequence walks the tree again.
func (s *Scanner) Scan(root string) iter.Seq2[Entry, error] {
	root = filepath.Clean(root)
	return func(yield func(Entry, error) bool) {
		info, err := s.fs.Stat(root)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				yield(Entry{}, fmt.Errorf("stat source root %s: %w", root, err))
			}
			return
		}
		if !info.IsDir() {
			return
		}

		stack := []dirFrame{{path: root, lineage: []os.FileInfo{info}}}
		for len(stack) > 0 {
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			children, err := afero.ReadDir(s.fs, frame.path)
			if err != nil {
				if !yield(Entry{}, fmt.Errorf("read directory %s: %w", frame.path, err)) {
					return
				}
				continue
			}

			var subdirs []dirFrame
			for _, child := range children {
				p := filepath.Join(frame.path, child.Name())
				if child.Mode()&os.ModeSymlink != 0 {
					target, statErr := s.fs.Stat(p)
					if statErr != nil {
						continue // dangling link
					}
					child = target
				}

				switch {
				case child.IsDir():
					if s.excluded(root, p, true) || inLineage(frame.lineage, child) {
						continue
					}
					lineage := append(slices.Clip(frame.lineage), child)
					subdirs = append(subdirs, dirFrame{path: p, lineage: lineage})
				case child.Mode().IsRegular():
					if s.excluded(root, p, false) {
						continue
					}
					if !yield(Entry{Path: p, Name: filepath.Base(p)}, nil) {
						return
					}
				}
			}

			// Push in reverse so directories pop in lexical order.
			for i := len(subdirs) - 1; i >= 0; i-- {
				stack = append(stack, subdirs[i])
			}
		}
	}
}

func (s *Scanner) excluded(root, p string, isDir bool) bool {
	if len(s.excludes) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range s.excludes {
		if matched, _ := doublestar.Match(pat, rel); matched {
			return true
		}
		if isDir {
			if matched, _ := doublestar.Match(pat, rel+"/"); matched {
				return true
			}
		}
	}
	return false
}

// inLineage reports whether dir is the same directory as one of its
// ancestors on the current walk path. Filesystems without inode identity
// (such as afero's in-memory one) never report a match, and also have no
// symlinks to loop through.
func inLineage(lineage []os.FileInfo, dir os.FileInfo) bool {
	for _, ancestor := range lineage {
		if os.SameFile(ancestor, dir) {
			return true
		}
	}
	return false
}
