package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
)

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := BuildExtractionPrompt("ml_guide.pdf", "Machine learning is the study of algorithms.")

	assert.Contains(t, prompt, "ml_guide.pdf")
	assert.Contains(t, prompt, "Machine learning is the study of algorithms.")
	assert.Contains(t, prompt, "ONLY a JSON object")
	for _, c := range domain.Categories() {
		assert.Contains(t, prompt, string(c))
	}
}

func TestBuildExtractionPromptTruncatesText(t *testing.T) {
	long := strings.Repeat("a", MaxPromptContentChars*2)
	prompt := BuildExtractionPrompt("doc.pdf", long)

	assert.Contains(t, prompt, strings.Repeat("a", MaxPromptContentChars)+"...")
	assert.NotContains(t, prompt, strings.Repeat("a", MaxPromptContentChars+1))
}

func TestBuildExtractionPromptEmptyText(t *testing.T) {
	prompt := BuildExtractionPrompt("doc.pdf", "   ")
	assert.Contains(t, prompt, "doc.pdf")
	assert.Contains(t, prompt, "JSON:")
}
