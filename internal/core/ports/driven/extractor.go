package driven

import "context"

// TextExtractor returns the extractable plain text of a source file.
// Extraction itself is an external collaborator: the pipeline treats any
// non-text-bearing format uniformly and makes no assumption beyond
// "text or a well-defined unreadable failure".
type TextExtractor interface {
	// Extract reads the file at path and returns its plain text, bounded
	// to maxBytes. Returns ErrUnreadableSource (wrapped) when the file
	// cannot be read or carries no extractable text.
	Extract(ctx context.Context, path string, maxBytes int) (string, error)
}
