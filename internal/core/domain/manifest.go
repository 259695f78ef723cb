package domain

import "time"

// ManifestEntry records the content hash a source file had the last time it
// was successfully processed. Entries are keyed by normalized relative path
// (slash-separated, independent of the host path separator), at most one
// entry per path.
type ManifestEntry struct {
	// Path is the normalized, store-relative path of the source file.
	Path string `json:"path"`

	// ContentHash is the hex-encoded fingerprint of the exact bytes
	// last successfully processed.
	ContentHash string `json:"content_hash"`

	// ProcessedAt is when the file was last committed.
	ProcessedAt time.Time `json:"processed_at"`
}

// FileState is a fingerprinted file observed during a directory scan.
type FileState struct {
	// Path is the normalized, store-relative path.
	Path string

	// AbsPath is the absolute filesystem path.
	AbsPath string

	// ContentHash is the current fingerprint, empty when the file
	// could not be read.
	ContentHash string

	// Size is the file size in bytes.
	Size int64

	// ModTime is the file modification time. Informational only; change
	// detection relies exclusively on ContentHash.
	ModTime time.Time

	// ReadErr is the fingerprinting failure, if any. Files with a ReadErr
	// are skipped rather than failing the run.
	ReadErr error
}

// ChangeSet partitions a directory scan against the manifest.
// Unchanged files are excluded from the work queue entirely, which is
// what makes re-runs over an unmodified tree perform zero model calls.
type ChangeSet struct {
	// New are files with no manifest entry.
	New []FileState

	// Modified are files whose manifest entry has a different hash.
	Modified []FileState

	// Unchanged are files whose manifest entry matches.
	Unchanged []FileState

	// Unreadable are files that could not be fingerprinted.
	Unreadable []FileState

	// Deleted are manifest entries with no corresponding file.
	Deleted []ManifestEntry
}

// Queue returns the files needing processing (new then modified),
// already in deterministic path order.
func (c ChangeSet) Queue() []FileState {
	queue := make([]FileState, 0, len(c.New)+len(c.Modified))
	queue = append(queue, c.New...)
	queue = append(queue, c.Modified...)
	return queue
}

// Empty reports whether the change set contains no work at all,
// including no deletions.
func (c ChangeSet) Empty() bool {
	return len(c.New) == 0 && len(c.Modified) == 0 && len(c.Deleted) == 0 && len(c.Unreadable) == 0
}
