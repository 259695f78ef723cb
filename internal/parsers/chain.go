package parsers

import "github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"

// DefaultChain returns the parser strategies in their canonical fallback
// order, strictest first.
func DefaultChain() []driven.ParseStrategy {
	return []driven.ParseStrategy{
		NewStrict(),
		NewReasoning(),
		NewBalanced(),
		NewRepair(),
		NewFieldScan(),
	}
}
