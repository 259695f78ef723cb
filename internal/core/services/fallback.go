package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
)

// categoryHints maps filename fragments to a category and seed keywords.
// Checked in order; first match wins.
var categoryHints = []struct {
	words    []string
	category domain.Category
	keywords []string
}{
	{[]string{"ai", "artificial"}, domain.CategoryAI, []string{"AI", "Artificial Intelligence"}},
	{[]string{"machine", "learning", "ml"}, domain.CategoryMachineLearning, []string{"Machine Learning", "ML"}},
	{[]string{"python", "pandas"}, domain.CategoryDataScience, []string{"Python", "Programming"}},
	{[]string{"statistics", "statistical"}, domain.CategoryDataScience, []string{"Statistics", "Data Science"}},
	{[]string{"data", "science"}, domain.CategoryDataScience, []string{"Data Science", "Analytics"}},
	{[]string{"excel", "analytics"}, domain.CategoryAnalytics, []string{"Excel", "Analytics"}},
	{[]string{"business", "revenue", "employee"}, domain.CategoryBusiness, []string{"Business", "Management"}},
	{[]string{"research", "paper", "study"}, domain.CategoryResearch, []string{"Research"}},
}

// FallbackRecord builds a deterministic, schema-valid field map from nothing
// but the filename. It is the terminal step of the parser chain: when the
// model is unavailable or its response is irreparable, every file still ends
// with some record, never with empty or crashed processing.
func FallbackRecord(filename string) domain.FieldMap {
	title := TitleFromFilename(filename)
	category, keywords := categoryFromFilename(filename)

	return domain.FieldMap{
		Title:    title,
		Category: string(category),
		Keywords: keywords,
		Summary: fmt.Sprintf(
			"This document provides comprehensive coverage of %s concepts and methodologies, offering valuable insights for professionals and researchers in %s.",
			strings.ToLower(title), strings.ToLower(string(category))),
		Difficulty:     string(difficultyFromFilename(filename)),
		ContentPreview: "Document: " + title,
	}
}

// TitleFromFilename derives a human-readable title from a filename stem.
func TitleFromFilename(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = strings.ReplaceAll(stem, "-", " ")
	return strings.Join(strings.Fields(stem), " ")
}

// categoryFromFilename matches filename fragments against the category
// enumeration, defaulting to Technology.
func categoryFromFilename(filename string) (domain.Category, []string) {
	lower := strings.ToLower(filename)
	for _, hint := range categoryHints {
		for _, word := range hint.words {
			if strings.Contains(lower, word) {
				return hint.category, hint.keywords
			}
		}
	}
	return domain.CategoryTechnology, []string{"Technology"}
}

// difficultyFromFilename infers difficulty from common level markers.
func difficultyFromFilename(filename string) domain.Difficulty {
	lower := strings.ToLower(filename)
	for _, word := range []string{"basic", "intro", "beginner", "fundamentals"} {
		if strings.Contains(lower, word) {
			return domain.DifficultyBeginner
		}
	}
	for _, word := range []string{"advanced", "expert", "deep", "comprehensive"} {
		if strings.Contains(lower, word) {
			return domain.DifficultyAdvanced
		}
	}
	return domain.DifficultyIntermediate
}
