// SPDX-License-Identifier: MPL-2.0

package catalog

import "strings"

// SpecSuffix is the filename suffix that marks a specification file.
const SpecSuffix = ".spec.json"

// IsSpecification reports whether a file name follows the specification
// naming convention. Matching is case-sensitive and looks at the name only.
func IsSpecification(name string) bool {
	return strings.HasSuffix(name, SpecSuffix)
}
