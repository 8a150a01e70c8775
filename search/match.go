package search

import (
	"slices"
	"strings"

	"github.com/poiesic/pharmainspect/core"
)

// Sentinels in a multi-select list that mean "every value".
var selectAll = []string{"ALL", "الكل"}

// nameSeparators split a combined inspector string such as "Ali - Sara".
const nameSeparators = "-/"

// IsUnconstrained reports whether a criterion places no constraint on a field:
// a blank string or an empty list.
func IsUnconstrained(criterion any) bool {
	switch v := criterion.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case core.Names:
		return len(v) == 0
	default:
		return false
	}
}

// NormalizeToArray wraps a scalar string into a one-element slice.
// Slices pass through unchanged.
func NormalizeToArray(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	case core.Names:
		return []string(v)
	default:
		return nil
	}
}

// splitNames tokenizes a single combined name string on '-' and '/',
// trimming and dropping empty tokens.
func splitNames(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return strings.ContainsRune(nameSeparators, r)
	})
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// nameTokens returns the names a record lists. A single value is the combined
// string form and is split. A list already holds one name per element and is
// only stripped of blank entries.
func nameTokens(names core.Names) []string {
	if len(names) == 1 {
		return splitNames(names[0])
	}
	tokens := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) != "" {
			tokens = append(tokens, name)
		}
	}
	return tokens
}

// containsFold is a locale-naive case-insensitive substring test.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func hasSelectAll(selected []string) bool {
	for _, s := range selected {
		if slices.Contains(selectAll, s) {
			return true
		}
	}
	return false
}

// NamesMatch reports whether any token of search is contained in any token of
// the record's names. A blank search always matches.
func NamesMatch(record core.Names, search string) bool {
	if IsUnconstrained(search) {
		return true
	}

	recordNames := nameTokens(record)
	searchNames := splitNames(search)
	for _, s := range searchNames {
		for _, r := range recordNames {
			if containsFold(r, s) {
				return true
			}
		}
	}
	return false
}

// MatchesSelectedList reports whether any selected inspector matches a record
// name token. Containment is checked in both directions.
func MatchesSelectedList(record core.Names, selected []string) bool {
	if IsUnconstrained(selected) || hasSelectAll(selected) {
		return true
	}

	recordNames := nameTokens(record)
	for _, s := range selected {
		for _, r := range recordNames {
			if containsFold(r, s) || containsFold(s, r) {
				return true
			}
		}
	}
	return false
}

// MatchesWorkPlace reports whether any of the record's workplaces contains
// text. Blank text always matches.
func MatchesWorkPlace(record core.Names, text string) bool {
	if IsUnconstrained(text) {
		return true
	}
	for _, wp := range NormalizeToArray(record) {
		if containsFold(wp, text) {
			return true
		}
	}
	return false
}

// MatchesSelectedWorkPlaces reports whether a record workplace contains any
// selected workplace. Unlike MatchesSelectedList only the record side is
// searched: a selected entry longer than the record value never matches.
func MatchesSelectedWorkPlaces(record core.Names, selected []string) bool {
	if IsUnconstrained(selected) || hasSelectAll(selected) {
		return true
	}
	for _, s := range selected {
		for _, wp := range NormalizeToArray(record) {
			if containsFold(wp, s) {
				return true
			}
		}
	}
	return false
}

// MatchesViolationText scans every violation of every section for text.
func MatchesViolationText(record *core.Record, text string) bool {
	if IsUnconstrained(text) {
		return true
	}
	if record == nil {
		return false
	}
	lower := strings.ToLower(text)
	for _, violations := range record.InspectionResults {
		for _, v := range violations {
			if strings.Contains(strings.ToLower(v), lower) {
				return true
			}
		}
	}
	return false
}

// MatchesInventoryType scans only the inventory management section.
// A missing section does not match.
func MatchesInventoryType(record *core.Record, text string) bool {
	if IsUnconstrained(text) {
		return true
	}
	if record == nil {
		return false
	}
	violations, ok := record.InspectionResults[core.SectionInventoryManagement]
	if !ok {
		return false
	}
	for _, v := range violations {
		if containsFold(v, text) {
			return true
		}
	}
	return false
}

// IsOwnedByUser reports whether userName appears among the record's inspectors.
// A blank user name never owns anything.
func IsOwnedByUser(record *core.Record, userName string) bool {
	if IsUnconstrained(userName) || record == nil {
		return false
	}
	return containsFold(record.BasicData.InspectorName.String(), userName)
}
