package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
)

func TestTitleFromFilename(t *testing.T) {
	cases := map[string]string{
		"machine_learning_intro.pdf": "machine learning intro",
		"data-science-handbook.md":   "data science handbook",
		"mixed_sep-file.txt":         "mixed sep file",
		"single.pdf":                 "single",
		"__weird__name__.pdf":        "weird name",
	}
	for filename, want := range cases {
		assert.Equal(t, want, TitleFromFilename(filename), "filename %q", filename)
	}
}

func TestFallbackRecordCategories(t *testing.T) {
	cases := map[string]domain.Category{
		"artificial_intelligence_overview.pdf": domain.CategoryAI,
		"machine_learning_basics.pdf":          domain.CategoryMachineLearning,
		"python_for_pandas.pdf":                domain.CategoryDataScience,
		"statistics_primer.pdf":                domain.CategoryDataScience,
		"excel_dashboards.txt":                 domain.CategoryAnalytics,
		"business_revenue_report.pdf":          domain.CategoryBusiness,
		"research_paper_draft.md":              domain.CategoryResearch,
		"completely_unrelated.pdf":             domain.CategoryTechnology,
	}
	for filename, want := range cases {
		fields := FallbackRecord(filename)
		assert.Equal(t, string(want), fields.Category, "filename %q", filename)
	}
}

func TestFallbackRecordDifficulty(t *testing.T) {
	cases := map[string]domain.Difficulty{
		"sql_basics.pdf":              domain.DifficultyBeginner,
		"intro_to_queues.md":          domain.DifficultyBeginner,
		"advanced_indexing.pdf":       domain.DifficultyAdvanced,
		"deep_dive_networking.pdf":    domain.DifficultyAdvanced,
		"regular_topic_overview.json": domain.DifficultyIntermediate,
	}
	for filename, want := range cases {
		fields := FallbackRecord(filename)
		assert.Equal(t, string(want), fields.Difficulty, "filename %q", filename)
	}
}

func TestFallbackRecordIsComplete(t *testing.T) {
	fields := FallbackRecord("machine_learning_guide.pdf")

	assert.NotEmpty(t, fields.Title)
	assert.NotEmpty(t, fields.Summary)
	assert.NotEmpty(t, fields.Keywords)
	assert.NotEmpty(t, fields.Category)
	assert.NotEmpty(t, fields.Difficulty)
	assert.NotEmpty(t, fields.ContentPreview)
}

func TestFallbackRecordDeterministic(t *testing.T) {
	a := FallbackRecord("ai_ethics.pdf")
	b := FallbackRecord("ai_ethics.pdf")
	assert.Equal(t, a, b)
}

func TestFallbackRecordValidates(t *testing.T) {
	// The heuristic output must survive validation untouched in the
	// fields that matter.
	fields := FallbackRecord("business_strategy_advanced.pdf")
	record := NewValidator().Validate(fields, domain.FileState{Path: "business_strategy_advanced.pdf"})

	assert.Equal(t, domain.CategoryBusiness, record.Category)
	assert.Equal(t, domain.DifficultyAdvanced, record.Difficulty)
	assert.Equal(t, "business strategy advanced", record.Title)
}
