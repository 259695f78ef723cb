package parsers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"
)

// Ensure Repair implements the interface.
var _ driven.ParseStrategy = (*Repair)(nil)

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	bareValueRe     = regexp.MustCompile(`:\s*([^",\[\]{}\s][^",\[\]{}]*?)\s*([,}])`)
)

// Repair fixes the malformations local models produce most often (trailing
// separators, unquoted keys, unquoted scalar values) on the extracted
// block, then parses the result. Light repair only: anything beyond these
// three fixes falls through to field scanning.
type Repair struct{}

// NewRepair creates the light-repair strategy.
func NewRepair() *Repair {
	return &Repair{}
}

// Name identifies the strategy.
func (r *Repair) Name() string { return "repair" }

// TryParse repairs the outermost block, or the first-to-last brace span
// when no balanced block exists, and parses the result.
func (r *Repair) TryParse(raw string) (domain.FieldMap, error) {
	block, ok := BalancedBlock(raw)
	if !ok {
		first := strings.Index(raw, "{")
		last := strings.LastIndex(raw, "}")
		if first == -1 || last <= first {
			return domain.FieldMap{}, fmt.Errorf("%w: no object to repair", domain.ErrParseFailure)
		}
		block = raw[first : last+1]
	}

	block = trailingCommaRe.ReplaceAllString(block, "$1")
	block = bareKeyRe.ReplaceAllString(block, `$1"$2":`)
	block = bareValueRe.ReplaceAllStringFunc(block, quoteBareValue)

	return fieldsFromJSON([]byte(block))
}

// quoteBareValue wraps an unquoted scalar value in quotes, leaving JSON
// literals and numbers alone.
func quoteBareValue(match string) string {
	sub := bareValueRe.FindStringSubmatch(match)
	value := strings.TrimSpace(sub[1])
	switch value {
	case "true", "false", "null":
		return match
	}
	if numericRe.MatchString(value) {
		return match
	}
	value = strings.ReplaceAll(value, `"`, `\"`)
	return `: "` + value + `"` + sub[2]
}

var numericRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
