package services

import (
	"sort"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
)

// ChangeDetector partitions a directory scan against the persisted manifest.
// It is pure: the same scan and manifest always produce the same ChangeSet,
// which keeps interrupted and resumed runs reproducible.
type ChangeDetector struct{}

// NewChangeDetector creates a change detector.
func NewChangeDetector() *ChangeDetector {
	return &ChangeDetector{}
}

// Detect classifies every scanned file as new, modified, unchanged or
// unreadable, and every orphaned manifest entry as deleted.
//
// A file is modified iff an entry exists for its path with a different
// hash; new iff no entry exists; deleted iff an entry exists with no
// corresponding file. With force set, unchanged files are reclassified as
// modified so the whole tree reprocesses.
func (d *ChangeDetector) Detect(states []domain.FileState, manifest map[string]domain.ManifestEntry, force bool) domain.ChangeSet {
	var cs domain.ChangeSet
	seen := make(map[string]bool, len(states))

	for _, state := range states {
		seen[state.Path] = true

		if state.ReadErr != nil {
			cs.Unreadable = append(cs.Unreadable, state)
			continue
		}

		entry, exists := manifest[state.Path]
		switch {
		case !exists:
			cs.New = append(cs.New, state)
		case entry.ContentHash != state.ContentHash || force:
			cs.Modified = append(cs.Modified, state)
		default:
			cs.Unchanged = append(cs.Unchanged, state)
		}
	}

	for path, entry := range manifest {
		if !seen[path] {
			cs.Deleted = append(cs.Deleted, entry)
		}
	}
	// Map iteration order is random; deletions commit in path order too.
	sort.Slice(cs.Deleted, func(i, j int) bool {
		return cs.Deleted[i].Path < cs.Deleted[j].Path
	})

	return cs
}
