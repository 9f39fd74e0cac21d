// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/restspecs/restspecs/pkg/types"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultDebounce is the watch debounce used when none is configured.
const DefaultDebounce = "500ms"

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
	ErrInvalidLoadOptions = errors.New("invalid load options")
)

type (
	// Config is the complete restspecs configuration.
	Config struct {
		// SourceRoots are the directories searched for specification files.
		SourceRoots []string `json:"source_roots" mapstructure:"source_roots"`
		// Destination is the root directory the manifest is written under.
		Destination string `json:"destination" mapstructure:"destination"`
		// Namespace selects the manifest directory and the retained entries.
		Namespace string `json:"namespace" mapstructure:"namespace"`
		// Exclude holds doublestar globs of root-relative paths to skip.
		Exclude []string `json:"exclude" mapstructure:"exclude"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Watch configures `generate --watch`.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// WatchConfig configures watch mode.
	WatchConfig struct {
		// Debounce is a Go duration string, e.g. "500ms".
		Debounce string `json:"debounce" mapstructure:"debounce"`
	}

	// InvalidConfigError collects every invalid field of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// InvalidLoadOptionsError is returned when LoadOptions has invalid fields.
	// It wraps ErrInvalidLoadOptions for errors.Is() compatibility.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		SourceRoots: []string{},
		Exclude:     []string{},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
		},
	}
}

// Validate checks the fields CUE cannot: namespace segments, glob syntax and
// the debounce duration. Empty namespace and destination are accepted here
// because CLI flags may still supply them.
func (c *Config) Validate() error {
	var errs []error
	if c.Namespace != "" {
		if err := types.Namespace(c.Namespace).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("namespace: %w", err))
		}
	}
	for i, root := range c.SourceRoots {
		if err := types.FilesystemPath(root).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("source_roots[%d]: %w", i, err))
		}
	}
	for i, pat := range c.Exclude {
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("exclude[%d]: invalid glob %q", i, pat))
		}
	}
	if _, err := c.Watch.DebounceDuration(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// DebounceDuration parses Debounce. An empty value yields DefaultDebounce.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	s := w.Debounce
	if s == "" {
		s = DefaultDebounce
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("watch.debounce: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("watch.debounce: must be positive, got %s", s)
	}
	return d, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return joinFieldErrors("invalid config", e.FieldErrors)
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so both
// the sentinel and the per-field causes match errors.Is().
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Error implements the error interface.
func (e *InvalidLoadOptionsError) Error() string {
	return joinFieldErrors("invalid load options", e.FieldErrors)
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }

func joinFieldErrors(prefix string, errs []error) string {
	if len(errs) == 1 {
		return fmt.Sprintf("%s: %v", prefix, errs[0])
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: %d field errors:\n  %s", prefix, len(errs), strings.Join(msgs, "\n  "))
}
