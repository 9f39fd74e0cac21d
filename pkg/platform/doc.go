// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// It holds the rules for what may appear in a single directory name on every
// supported OS, which namespace validation relies on so that a namespace
// accepted on Linux still produces a usable manifest directory on Windows.
package platform
