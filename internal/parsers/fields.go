package parsers

import (
	"encoding/json"
	"fmt"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
)

// fieldsFromJSON decodes a JSON object into a FieldMap, coercing the
// duck-typed shapes local models actually emit: scalar strings where
// arrays were asked for, numbers where strings were asked for, and
// arbitrary extra keys, which are ignored.
func fieldsFromJSON(data []byte) (domain.FieldMap, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.FieldMap{}, fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
	}

	fields := domain.FieldMap{
		Title:          asString(raw["title"]),
		Summary:        asString(raw["summary"]),
		Category:       asString(raw["category"]),
		Difficulty:     asString(raw["difficulty"]),
		ContentPreview: asString(raw["content_preview"]),
		Keywords:       asStringList(raw["keywords"]),
		Authors:        asStringList(raw["authors"]),
	}

	if fields.Empty() {
		return domain.FieldMap{}, fmt.Errorf("%w: object carries no known fields", domain.ErrParseFailure)
	}
	return fields, nil
}

// asString coerces a JSON value to a string, tolerating numbers.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return fmt.Sprintf("%v", s)
	default:
		return ""
	}
}

// asStringList coerces a JSON value to a string slice. A bare string
// becomes a single-element list, matching what models often return.
func asStringList(v any) []string {
	switch list := v.(type) {
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if list == "" {
			return nil
		}
		return []string{list}
	default:
		return nil
	}
}
