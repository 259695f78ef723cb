package services

import (
	"fmt"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"
	"github.com/docshelf-labs/docshelf-cli/internal/logger"
)

// ParserChain drives the ordered parse strategies over a raw model
// response, stopping at the first success.
type ParserChain struct {
	strategies []driven.ParseStrategy
}

// NewParserChain creates a chain over the given strategies, attempted in
// slice order.
func NewParserChain(strategies []driven.ParseStrategy) *ParserChain {
	return &ParserChain{strategies: strategies}
}

// Parse returns the first strategy's fields along with the strategy name
// that produced them. When every strategy fails the error wraps
// ErrParseFailure and the caller routes the file to the heuristic
// fallback; a definitive failure is an expected outcome, not a crash.
func (c *ParserChain) Parse(raw string) (domain.FieldMap, string, error) {
	if raw == "" {
		return domain.FieldMap{}, "", fmt.Errorf("%w: empty response", domain.ErrParseFailure)
	}

	for _, strategy := range c.strategies {
		fields, err := strategy.TryParse(raw)
		if err != nil {
			logger.Debug("Parser %s: %v", strategy.Name(), err)
			continue
		}
		logger.Debug("Parser %s recovered %d field(s)", strategy.Name(), fields.FieldCount())
		return fields, strategy.Name(), nil
	}

	return domain.FieldMap{}, "", fmt.Errorf("%w: all %d strategies exhausted", domain.ErrParseFailure, len(c.strategies))
}
