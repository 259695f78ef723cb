package parsers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"
)

// Ensure FieldScan implements the interface.
var _ driven.ParseStrategy = (*FieldScan)(nil)

// scalarPatterns are tried in order per field; the first match wins.
// They cover quoted JSON-ish fields, bare "Key: value" prose, and
// assignment forms.
var scalarPatterns = map[string][]*regexp.Regexp{
	"title": {
		regexp.MustCompile(`(?i)"title"\s*:\s*"([^"]*)"`),
		regexp.MustCompile(`(?i)title\s*[:=]\s*"([^"]*)"`),
		regexp.MustCompile(`(?i)Title\s*:\s*([^\n,}]+)`),
	},
	"summary": {
		regexp.MustCompile(`(?i)"summary"\s*:\s*"([^"]*)"`),
		regexp.MustCompile(`(?i)summary\s*[:=]\s*"([^"]*)"`),
		regexp.MustCompile(`(?i)Summary\s*:\s*([^\n}]+)`),
	},
	"category": {
		regexp.MustCompile(`(?i)"category"\s*:\s*"([^"]*)"`),
		regexp.MustCompile(`(?i)Category\s*:\s*([^\n,}]+)`),
	},
	"difficulty": {
		regexp.MustCompile(`(?i)"difficulty"\s*:\s*"([^"]*)"`),
		regexp.MustCompile(`(?i)Difficulty\s*:\s*([^\n,}]+)`),
	},
	"content_preview": {
		regexp.MustCompile(`(?i)"content_preview"\s*:\s*"([^"]*)"`),
		regexp.MustCompile(`(?i)Content Preview\s*:\s*([^\n,}]+)`),
	},
}

var listPatterns = map[string]*regexp.Regexp{
	"keywords": regexp.MustCompile(`(?is)"?keywords"?\s*:\s*\[(.*?)\]`),
	"authors":  regexp.MustCompile(`(?is)"?authors"?\s*:\s*\[(.*?)\]`),
}

var quotedItemRe = regexp.MustCompile(`"([^"]*)"`)

// FieldScan extracts each expected field independently via pattern
// matching. It is the last strategy before the heuristic fallback and can
// recover partial data from responses whose overall structure is
// irreparable.
type FieldScan struct{}

// NewFieldScan creates the field-by-field extraction strategy.
func NewFieldScan() *FieldScan {
	return &FieldScan{}
}

// Name identifies the strategy.
func (f *FieldScan) Name() string { return "fieldscan" }

// TryParse scans for every known field and succeeds when at least one was
// recovered.
func (f *FieldScan) TryParse(raw string) (domain.FieldMap, error) {
	fields := domain.FieldMap{
		Title:          scanScalar(raw, "title"),
		Summary:        scanScalar(raw, "summary"),
		Category:       scanScalar(raw, "category"),
		Difficulty:     scanScalar(raw, "difficulty"),
		ContentPreview: scanScalar(raw, "content_preview"),
		Keywords:       scanList(raw, "keywords"),
		Authors:        scanList(raw, "authors"),
	}

	if fields.Empty() {
		return domain.FieldMap{}, fmt.Errorf("%w: no recognisable fields", domain.ErrParseFailure)
	}
	return fields, nil
}

func scanScalar(raw, field string) string {
	for _, re := range scalarPatterns[field] {
		if m := re.FindStringSubmatch(raw); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func scanList(raw, field string) []string {
	m := listPatterns[field].FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	body := m[1]

	var items []string
	for _, q := range quotedItemRe.FindAllStringSubmatch(body, -1) {
		if s := strings.TrimSpace(q[1]); s != "" {
			items = append(items, s)
		}
	}
	if len(items) > 0 {
		return items
	}

	// No quoted items: fall back to comma separation.
	for _, part := range strings.Split(body, ",") {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
