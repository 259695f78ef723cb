package domain

// FieldMap holds the loosely-typed fields recovered from a model response
// before validation. Any subset may be populated: the strict JSON strategy
// fills everything, while field-by-field extraction may recover only one
// or two values. The validator turns any FieldMap, however degenerate,
// into a schema-valid DocumentRecord.
type FieldMap struct {
	Title          string   `json:"title"`
	Summary        string   `json:"summary"`
	Keywords       []string `json:"keywords"`
	Category       string   `json:"category"`
	Difficulty     string   `json:"difficulty"`
	Authors        []string `json:"authors"`
	ContentPreview string   `json:"content_preview"`
}

// Empty reports whether no field was recovered at all.
func (f FieldMap) Empty() bool {
	return f.Title == "" && f.Summary == "" && f.Category == "" &&
		f.Difficulty == "" && f.ContentPreview == "" &&
		len(f.Keywords) == 0 && len(f.Authors) == 0
}

// FieldCount returns the number of populated fields, used by parser
// strategies that require a minimum recovery to claim success.
func (f FieldMap) FieldCount() int {
	n := 0
	if f.Title != "" {
		n++
	}
	if f.Summary != "" {
		n++
	}
	if f.Category != "" {
		n++
	}
	if f.Difficulty != "" {
		n++
	}
	if f.ContentPreview != "" {
		n++
	}
	if len(f.Keywords) > 0 {
		n++
	}
	if len(f.Authors) > 0 {
		n++
	}
	return n
}
