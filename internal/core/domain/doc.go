// Package domain defines the core business entities for Docshelf.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRecord: Structured metadata extracted for one source document
//   - ManifestEntry: The last-processed content hash for one source file
//   - ChangeSet: A directory scan partitioned into new/modified/unchanged/deleted
//   - Outcome: The tagged result of processing one file
//   - FieldMap: Loosely-typed fields recovered from a model response
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
