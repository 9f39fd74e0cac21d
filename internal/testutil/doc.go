// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that fail the test
// on error instead of returning it.
//
// Helpers cover the working directory and environment (MustChdir,
// MustSetenv), on-disk fixtures (MustMkdirAll, MustTouch, MustSymlink) and
// fixture trees on any afero filesystem (SeedTree, ReadLines).
package testutil
