package parsers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"
)

// Ensure Reasoning implements the interface.
var _ driven.ParseStrategy = (*Reasoning)(nil)

var (
	thinkBlockRe = regexp.MustCompile(`(?s)<think>.*?</think>`)
	xmlTagRe     = regexp.MustCompile(`<[^>]+>`)
)

// Reasoning strips the model's reasoning monologue before a strict parse.
// Reasoning-tuned models wrap their deliberation in <think> blocks, at
// times without a closing tag, before emitting the actual answer.
type Reasoning struct{}

// NewReasoning creates the reasoning-strip strategy.
func NewReasoning() *Reasoning {
	return &Reasoning{}
}

// Name identifies the strategy.
func (r *Reasoning) Name() string { return "reasoning" }

// TryParse removes closed <think> blocks, truncates an unclosed block at
// the first following brace, drops residual tags, and retries the strict
// parse on the remainder.
func (r *Reasoning) TryParse(raw string) (domain.FieldMap, error) {
	cleaned := thinkBlockRe.ReplaceAllString(raw, "")

	// Unclosed block: keep everything up to the tag, then resume at the
	// first opening brace after it.
	if idx := strings.Index(cleaned, "<think>"); idx != -1 {
		if brace := strings.Index(cleaned[idx:], "{"); brace != -1 {
			cleaned = cleaned[:idx] + cleaned[idx+brace:]
		} else {
			cleaned = cleaned[:idx]
		}
	}

	cleaned = strings.TrimSpace(xmlTagRe.ReplaceAllString(cleaned, ""))
	if cleaned == "" {
		return domain.FieldMap{}, fmt.Errorf("%w: nothing left after stripping reasoning", domain.ErrParseFailure)
	}
	return fieldsFromJSON([]byte(cleaned))
}
