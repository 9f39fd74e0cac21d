// SPDX-License-Identifier: MPL-2.0

// Package catalog generates the restspecs manifest: it discovers
// "*.spec.json" specification files under one or more source roots,
// deduplicates them by root-relative resource path, keeps the ones under a
// namespace directory and writes them, one per line, to
// <destination>/<namespace-as-path>/restspecs.rs.
//
// File organization:
//   - scanner.go: recursive, lazy walk of one source root (Scanner.Scan)
//   - matcher.go: the specification filename convention (IsSpecification)
//   - normalize.go: root-relative path to ResourcePath (ResourcePathFor)
//   - catalog.go: the deduplicating set of resource paths (Catalog)
//   - writer.go: manifest location and atomic write (Writer, ManifestPath)
//   - generator.go: orchestration across roots (Generator, GenerateCatalog)
//   - diagnostic.go: non-fatal findings such as missing source roots
package catalog
