package services

import (
	"strings"
	"time"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
)

// Schema bounds enforced by the validator.
const (
	MaxSummaryLength = 600
	MaxPreviewLength = 160
	MaxKeywords      = 8
	MaxAuthors       = 6
	MinTitleLength   = 3
)

// Validator turns any FieldMap, however degenerate, into a fully populated,
// schema-valid DocumentRecord. It is pure and total: it never fails, and
// every anomaly resolves to a defined default rather than an error.
type Validator struct{}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate builds the record for a file from extracted fields.
// The state supplies file identity (path, size, mod time); fields supply
// everything the model or heuristic recovered.
func (v *Validator) Validate(fields domain.FieldMap, state domain.FileState) domain.DocumentRecord {
	filename := baseName(state.Path)
	title := strings.TrimSpace(fields.Title)
	if len(title) < MinTitleLength {
		title = TitleFromFilename(filename)
	}

	category := coerceCategory(fields.Category, filename)
	difficulty := coerceDifficulty(fields.Difficulty)

	summary := strings.TrimSpace(fields.Summary)
	if len(summary) < 20 {
		summary = "This document covers " + strings.ToLower(title) +
			", providing comprehensive information and insights on " +
			strings.ToLower(string(category)) + "."
	}
	summary = truncate(summary, MaxSummaryLength)

	preview := strings.TrimSpace(fields.ContentPreview)
	if preview == "" {
		preview = "Document: " + title
	}
	preview = truncate(preview, MaxPreviewLength)

	keywords := dedupe(fields.Keywords, MaxKeywords)
	if len(keywords) == 0 {
		keywords = []string{string(category), "Document"}
	}

	uploaded := state.ModTime
	if uploaded.IsZero() {
		uploaded = time.Now()
	}

	return domain.DocumentRecord{
		ID:             domain.RecordID(state.Path),
		Filename:       filename,
		Title:          title,
		Authors:        dedupe(fields.Authors, MaxAuthors),
		Summary:        summary,
		Keywords:       keywords,
		Category:       category,
		Difficulty:     difficulty,
		ContentPreview: preview,
		Filepath:       state.Path,
		FileSize:       state.Size,
		UploadedAt:     uploaded,
	}
}

// coerceCategory matches the proposed value case-insensitively against the
// closed set, falling back to the filename heuristic when the model
// proposed something outside it.
func coerceCategory(proposed, filename string) domain.Category {
	trimmed := strings.TrimSpace(proposed)
	for _, c := range domain.Categories() {
		if strings.EqualFold(trimmed, string(c)) {
			return c
		}
	}
	category, _ := categoryFromFilename(filename)
	return category
}

// coerceDifficulty matches case-insensitively against the closed set.
// "Basic" is accepted as a historical alias for Beginner.
func coerceDifficulty(proposed string) domain.Difficulty {
	trimmed := strings.TrimSpace(proposed)
	if strings.EqualFold(trimmed, "basic") {
		return domain.DifficultyBeginner
	}
	for _, d := range domain.Difficulties() {
		if strings.EqualFold(trimmed, string(d)) {
			return d
		}
	}
	return domain.DifficultyIntermediate
}

// dedupe removes duplicates and empty items preserving order, capping the
// result at limit. Always returns a non-nil slice.
func dedupe(items []string, limit int) []string {
	result := make([]string, 0, limit)
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, item)
		if len(result) == limit {
			break
		}
	}
	return result
}

// truncate bounds s to max bytes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// baseName returns the final element of a slash-normalized path.
func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
