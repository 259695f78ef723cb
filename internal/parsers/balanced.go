package parsers

import (
	"fmt"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"
)

// Ensure Balanced implements the interface.
var _ driven.ParseStrategy = (*Balanced)(nil)

// Balanced extracts the outermost balanced {...} block from the response
// and parses only that substring. It survives prose before and after the
// payload that the reasoning strip did not remove.
type Balanced struct{}

// NewBalanced creates the balanced-block strategy.
func NewBalanced() *Balanced {
	return &Balanced{}
}

// Name identifies the strategy.
func (b *Balanced) Name() string { return "balanced" }

// TryParse locates the first opening brace and its matching closing brace,
// honouring string literals and escapes, then parses the enclosed block.
func (b *Balanced) TryParse(raw string) (domain.FieldMap, error) {
	block, ok := BalancedBlock(raw)
	if !ok {
		return domain.FieldMap{}, fmt.Errorf("%w: no balanced object found", domain.ErrParseFailure)
	}
	return fieldsFromJSON([]byte(block))
}

// BalancedBlock returns the outermost balanced brace block in s, scanning
// from the first '{' to its matching '}'. String literals and escape
// sequences do not affect the depth count.
func BalancedBlock(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			if depth == 0 {
				start = i
			}
			depth++
		case c == '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
