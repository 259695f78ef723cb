package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnreadableSource indicates a source file could not be read or its
	// text could not be extracted. Fatal for that file only; the run continues.
	ErrUnreadableSource = errors.New("unreadable source")

	// ErrModelUnavailable indicates the model service could not be reached
	// or started within the bounded startup protocol, or a request exhausted
	// its retries. Recoverable: the file routes to the heuristic fallback.
	ErrModelUnavailable = errors.New("model service unavailable")

	// ErrModelTimeout indicates a single generation call exceeded its
	// request timeout. Recoverable, same routing as ErrModelUnavailable.
	ErrModelTimeout = errors.New("model request timed out")

	// ErrParseFailure indicates a parser strategy could not extract a
	// structured record. Recoverable: the next strategy is attempted, and
	// exhaustion routes to the heuristic fallback.
	ErrParseFailure = errors.New("response parse failure")

	// ErrPersistenceWrite indicates the paired record/manifest commit failed.
	// This is the one failure that halts a run, before the pairing
	// invariant can be broken.
	ErrPersistenceWrite = errors.New("persistence write failure")

	// ErrRunInProgress indicates another pipeline run holds the run lock.
	ErrRunInProgress = errors.New("pipeline run already in progress")
)
