package services

import (
	"fmt"
	"strings"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
)

// MaxPromptContentChars bounds how much extracted text is sent per call.
// Local models degrade on long contexts and the metadata lives in the
// opening pages anyway.
const MaxPromptContentChars = 1500

// extractionPrompt instructs the model to answer with a single JSON object.
// Local models routinely ignore this, which is why the parser chain exists.
const extractionPrompt = `You must respond with ONLY a JSON object. No thinking, no explanations, no other text.

{"title": "document title", "summary": "summary of at least 200 characters", "keywords": ["keyword1", "keyword2"], "category": "one of: %s", "difficulty": "one of: Beginner, Intermediate, Advanced", "authors": [], "content_preview": "one-line preview"}

Document: %s
Text:
%s

JSON:`

// BuildExtractionPrompt renders the metadata extraction prompt for one
// document, truncating the extracted text to MaxPromptContentChars.
func BuildExtractionPrompt(filename, text string) string {
	text = strings.TrimSpace(text)
	if len(text) > MaxPromptContentChars {
		text = text[:MaxPromptContentChars] + "..."
	}

	categories := make([]string, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		categories = append(categories, string(c))
	}
	return fmt.Sprintf(extractionPrompt, strings.Join(categories, ", "), filename, text)
}
