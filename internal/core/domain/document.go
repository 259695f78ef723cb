package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Category is the closed set of document categories.
// Records never carry raw model text here; validation coerces
// anything outside the set to CategoryTechnology.
type Category string

// Valid categories.
const (
	CategoryAI              Category = "AI"
	CategoryMachineLearning Category = "Machine Learning"
	CategoryDataScience     Category = "Data Science"
	CategoryAnalytics       Category = "Analytics"
	CategoryBusiness        Category = "Business"
	CategoryTechnology      Category = "Technology"
	CategoryResearch        Category = "Research"
)

// Categories returns all valid categories in display order.
func Categories() []Category {
	return []Category{
		CategoryAI,
		CategoryMachineLearning,
		CategoryDataScience,
		CategoryAnalytics,
		CategoryBusiness,
		CategoryTechnology,
		CategoryResearch,
	}
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	for _, v := range Categories() {
		if c == v {
			return true
		}
	}
	return false
}

// Difficulty is the closed set of difficulty levels.
type Difficulty string

// Valid difficulties.
const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Difficulties returns all valid difficulty levels.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

// Valid reports whether d is a member of the closed difficulty set.
func (d Difficulty) Valid() bool {
	return d == DifficultyBeginner || d == DifficultyIntermediate || d == DifficultyAdvanced
}

// DocumentRecord is the structured metadata produced for one source document.
// It is the schema contract with downstream consumers (the site's search and
// graph layers), so field names and enum values must stay stable.
type DocumentRecord struct {
	// ID is derived from the document's manifest path, so re-ingesting an
	// unchanged file can never create a duplicate record.
	ID string `json:"id"`

	// Filename is the base name of the source file.
	Filename string `json:"filename"`

	// Title is the extracted or inferred document title.
	Title string `json:"title"`

	// Authors is the ordered author list. Empty, never nil, after validation.
	Authors []string `json:"authors"`

	// Summary is a bounded-length abstract of the document.
	Summary string `json:"summary"`

	// Keywords is a deduplicated, capped set of short keywords.
	Keywords []string `json:"keywords"`

	// Category is always a valid Category member after validation.
	Category Category `json:"category"`

	// Difficulty is always a valid Difficulty member after validation.
	Difficulty Difficulty `json:"difficulty"`

	// ContentPreview is a short teaser shown in listings.
	ContentPreview string `json:"content_preview"`

	// Filepath is the store-relative location of the source file.
	Filepath string `json:"filepath"`

	// FileSize is the source file size in bytes.
	FileSize int64 `json:"file_size"`

	// UploadedAt is when the source file was last modified.
	UploadedAt time.Time `json:"upload_date"`
}

// RecordID returns the deterministic identifier for a document at the given
// normalized manifest path. The ID depends only on file identity, not content,
// so a modified file updates its record in place.
func RecordID(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:16])
}
