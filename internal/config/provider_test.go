// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"github.com/restspecs/restspecs/pkg/types"
)

func TestLoadOptions_Validate_AllEmpty(t *testing.T) {
	t.Parallel()
	if err := (LoadOptions{}).Validate(); err != nil {
		t.Errorf("empty LoadOptions should be valid, got error: %v", err)
	}
}

func TestLoadOptions_Validate_AllValid(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{
		ConfigFilePath: "/tmp/restspecs.cue",
		BaseDir:        "/tmp/base",
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("LoadOptions with valid paths should be valid, got error: %v", err)
	}
}

func TestLoadOptions_Validate_Invalid(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{
		ConfigFilePath: types.FilesystemPath("   "),
		BaseDir:        types.FilesystemPath("\t"),
	}
	err := opts.Validate()
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Fatalf("error should wrap ErrInvalidLoadOptions, got: %v", err)
	}

	var loadErr *InvalidLoadOptionsError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error should be *InvalidLoadOptionsError, got: %T", err)
	}
	if len(loadErr.FieldErrors) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(loadErr.FieldErrors))
	}
}
