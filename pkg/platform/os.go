// SPDX-License-Identifier: MPL-2.0

package platform

import "runtime"

// Windows is the runtime.GOOS value on which namespace segments are also
// checked against reserved device names.
const Windows = "windows"

// IsWindows reports whether the process runs on Windows.
func IsWindows() bool {
	return runtime.GOOS == Windows
}
