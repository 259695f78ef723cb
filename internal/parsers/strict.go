package parsers

import (
	"fmt"
	"strings"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"
)

// Ensure Strict implements the interface.
var _ driven.ParseStrategy = (*Strict)(nil)

// Strict parses the entire response as one JSON object.
type Strict struct{}

// NewStrict creates the strict parse strategy.
func NewStrict() *Strict {
	return &Strict{}
}

// Name identifies the strategy.
func (s *Strict) Name() string { return "strict" }

// TryParse decodes the whole trimmed response.
func (s *Strict) TryParse(raw string) (domain.FieldMap, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.FieldMap{}, fmt.Errorf("%w: empty response", domain.ErrParseFailure)
	}
	return fieldsFromJSON([]byte(trimmed))
}
