package driven

import (
	"context"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
)

// StateStore persists document records and the tracking manifest.
//
// A record and its manifest entry are created, updated and removed together:
// Commit and Remove are each a single atomic unit, and implementations must
// never expose a state where one half of the pair exists without the other.
// That pairing is the core consistency invariant behind resumability.
type StateStore interface {
	// Commit atomically writes the record and its manifest entry.
	// Existing rows for the same ID/path are replaced.
	Commit(ctx context.Context, record domain.DocumentRecord, entry domain.ManifestEntry) error

	// Remove atomically deletes the record and manifest entry for a
	// source file that has disappeared. Removing an unknown pair is not
	// an error.
	Remove(ctx context.Context, recordID, path string) error

	// Records returns all document records sorted by filename.
	Records(ctx context.Context) ([]domain.DocumentRecord, error)

	// Manifest returns the full manifest keyed by normalized path.
	Manifest(ctx context.Context) (map[string]domain.ManifestEntry, error)

	// Close releases resources.
	Close() error
}
