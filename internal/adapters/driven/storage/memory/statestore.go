// Package memory provides in-memory adapter implementations for testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"
)

// StateStore is an in-memory state store. Commit keeps the record and
// manifest entry together, mirroring the transactional guarantee of the
// persistent store.
type StateStore struct {
	mu       sync.RWMutex
	records  map[string]domain.DocumentRecord
	manifest map[string]domain.ManifestEntry

	// CommitErr, when set, is returned by Commit. Lets tests exercise
	// persistence failure paths.
	CommitErr error

	// FailOnCommit, when positive, fails only the Nth Commit call.
	FailOnCommit int

	commits int
}

var _ driven.StateStore = (*StateStore)(nil)

var errPlannedCommitFailure = errors.New("planned commit failure")

// NewStateStore creates an empty in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{
		records:  make(map[string]domain.DocumentRecord),
		manifest: make(map[string]domain.ManifestEntry),
	}
}

// Commit stores a record together with its manifest entry.
func (s *StateStore) Commit(_ context.Context, record domain.DocumentRecord, entry domain.ManifestEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CommitErr != nil {
		return s.CommitErr
	}
	s.commits++
	if s.FailOnCommit > 0 && s.commits == s.FailOnCommit {
		return errPlannedCommitFailure
	}
	s.records[record.ID] = record
	s.manifest[entry.Path] = entry
	return nil
}

// Remove deletes a record and its manifest entry.
func (s *StateStore) Remove(_ context.Context, recordID, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, recordID)
	delete(s.manifest, path)
	return nil
}

// Records returns all records sorted by filename.
func (s *StateStore) Records(_ context.Context) ([]domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.DocumentRecord, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Filename < records[j].Filename
	})
	return records, nil
}

// Manifest returns a copy of the manifest keyed by path.
func (s *StateStore) Manifest(_ context.Context) (map[string]domain.ManifestEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	manifest := make(map[string]domain.ManifestEntry, len(s.manifest))
	for path, entry := range s.manifest {
		manifest[path] = entry
	}
	return manifest, nil
}

// Close is a no-op.
func (s *StateStore) Close() error {
	return nil
}
