package driven

import "github.com/docshelf-labs/docshelf-cli/internal/core/domain"

// ParseStrategy is one step of the response parser fallback chain.
// Strategies are attempted in registration order and the chain stops at
// the first success, so each strategy must be independently testable and
// must fail with ErrParseFailure (wrapped) rather than guessing.
type ParseStrategy interface {
	// Name identifies the strategy in logs and outcome reasons.
	Name() string

	// TryParse attempts to extract structured fields from a raw model
	// response. A nil error means the returned FieldMap is usable, even
	// if only partially populated.
	TryParse(raw string) (domain.FieldMap, error)
}
