// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when specification files change.
//
// A Watcher registers every directory below one or more source roots with
// fsnotify, filters events through doublestar patterns and ignore globs, and
// coalesces bursts of events into a single debounced callback.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/restspecs/restspecs/pkg/types"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

var (
	// DefaultPatterns select the files that trigger a callback when
	// Config.Patterns is empty.
	DefaultPatterns = []string{"**/*.spec.json"}

	// defaultIgnores are always excluded in addition to Config.Ignore.
	defaultIgnores = []string{
		"**/.git/**",
		"**/.svn/**",
		"**/.hg/**",
		"**/*.swp",
		"**/*.swo",
		"**/*~",
		"**/.DS_Store",
		"**/.restspecs.rs-*",
	}

	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid watch config")
	// ErrNoRoots is returned by New when none of the roots exist.
	ErrNoRoots = errors.New("no existing source root to watch")
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are the directories to watch recursively. Roots that do not
		// exist are skipped. An empty slice watches the working directory.
		Roots []types.FilesystemPath

		// Patterns are doublestar globs matched against root-relative,
		// slash-separated paths. Empty means DefaultPatterns.
		Patterns []string

		// Ignore are additional doublestar globs that never trigger
		// callbacks. Matching directories are not watched at all.
		Ignore []string

		// Debounce is the quiet period after the last event before the
		// callback fires. Zero or negative values mean 500ms.
		Debounce time.Duration

		// ClearScreen writes an ANSI clear sequence to Stdout before each
		// callback. No terminal detection is performed.
		ClearScreen bool

		// OnChange receives the deduplicated, sorted absolute paths that
		// changed during the debounce window. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout receives the clear-screen sequence. Defaults to os.Stdout.
		Stdout io.Writer

		// Logger receives watcher diagnostics. Defaults to a discard logger.
		Logger *log.Logger
	}

	// InvalidConfigError is returned when Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Watcher monitors source roots and fires a debounced callback when
	// matching files change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		roots    []string
		patterns []string
		ignores  []string
		stdout   io.Writer
		logger   *log.Logger
		debounce time.Duration
		started  atomic.Bool
	}
)

// Validate checks roots and glob syntax without touching the filesystem.
func (c Config) Validate() error {
	var errs []error
	for i, r := range c.Roots {
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("roots[%d]: %w", i, err))
		}
	}
	for i, pat := range c.Patterns {
		if pat == "" || !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("invalid watch pattern %q at patterns[%d]", pat, i))
		}
	}
	for i, pat := range c.Ignore {
		if pat == "" || !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("invalid ignore pattern %q at ignore[%d]", pat, i))
		}
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "watch: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// New validates cfg, resolves the roots to absolute paths and registers
// every non-ignored directory below the existing ones.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	roots, err := resolveRoots(cfg.Roots, logger)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		roots:    roots,
		patterns: slices.Clone(patterns),
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		stdout:   stdout,
		logger:   logger,
		debounce: debounce,
	}

	for _, root := range roots {
		if err := w.addTree(root); err != nil {
			if closeErr := fsw.Close(); closeErr != nil {
				logger.Warn("close fsnotify after init failure", "err", closeErr)
			}
			return nil, err
		}
	}

	return w, nil
}

// Roots returns the absolute roots being watched.
func (w *Watcher) Roots() []string {
	return slices.Clone(w.roots)
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when fsnotify fails fatally.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after cancellation because it is scheduled by
	// time.AfterFunc; the ctx check narrows that window.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("previous run still in progress, deferring")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.ClearScreen {
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("change handler failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("close fsnotify", "err", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if !w.relevant(evt) {
				continue
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// relevant reports whether evt should schedule a callback. A created
// directory is added to the watch and counts as a change, since files may
// have landed in it before the watch existed. Removals and renames always
// count because a vanished directory may have held specifications.
func (w *Watcher) relevant(evt fsnotify.Event) bool {
	rel, ok := w.relative(evt.Name)
	if !ok || w.isIgnored(rel) {
		return false
	}
	if evt.Has(fsnotify.Create) && w.maybeAddDir(evt.Name, rel) {
		return true
	}
	if evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename) {
		return true
	}
	if evt.Op == fsnotify.Chmod {
		return false
	}
	return w.matchesPatterns(rel)
}

// relative returns path relative to the innermost root containing it.
func (w *Watcher) relative(path string) (string, bool) {
	best := ""
	for _, root := range w.roots {
		if (path == root || strings.HasPrefix(path, root+string(filepath.Separator))) && len(root) > len(best) {
			best = root
		}
	}
	if best == "" {
		return "", false
	}
	rel, err := filepath.Rel(best, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// addTree registers root and every non-ignored directory below it.
// Unreadable directories are logged and skipped.
func (w *Watcher) addTree(root string) error {
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkDirErr)
			return nil //nolint:nilerr // inaccessible paths are skipped
		}
		if !d.IsDir() {
			return nil
		}

		if path != root {
			rel, ok := w.relative(path)
			if !ok || w.isIgnored(rel) || w.isIgnored(rel+"/") {
				return filepath.SkipDir
			}
		}

		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk %s: %w", root, walkErr)
	}
	return nil
}

// maybeAddDir registers a newly created directory tree and reports whether
// path was a directory.
func (w *Watcher) maybeAddDir(path, rel string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	if w.isIgnored(rel + "/") {
		return false
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("watch new directory", "path", path, "err", err)
	}
	return true
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func (w *Watcher) matchesPatterns(rel string) bool {
	return matchAny(w.patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// resolveRoots makes roots absolute, drops duplicates and roots that do not
// exist, and fails when nothing is left.
func resolveRoots(in []types.FilesystemPath, logger *log.Logger) ([]string, error) {
	if len(in) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		in = []types.FilesystemPath{types.FilesystemPath(wd)}
	}

	var roots []string
	for _, r := range in {
		abs, err := filepath.Abs(string(r))
		if err != nil {
			return nil, fmt.Errorf("watch: resolve root %s: %w", r, err)
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			logger.Warn("not watching missing source root", "root", abs)
			continue
		}
		if !slices.Contains(roots, abs) {
			roots = append(roots, abs)
		}
	}
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}
	return roots, nil
}
