package search

import (
	"testing"

	"github.com/poiesic/pharmainspect/core"
	"github.com/stretchr/testify/assert"
)

func TestIsUnconstrained(t *testing.T) {
	tests := []struct {
		name      string
		criterion any
		want      bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"whitespace", "  \t", true},
		{"text", "x", false},
		{"empty list", []string{}, true},
		{"nil list", []string(nil), true},
		{"list", []string{"a"}, false},
		{"empty names", core.Names{}, true},
		{"names", core.NamesOf("a"), false},
		{"unsupported type", 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnconstrained(tt.criterion))
		})
	}
}

func TestNormalizeToArray(t *testing.T) {
	assert.Equal(t, []string{"Ali"}, NormalizeToArray("Ali"))
	assert.Equal(t, []string{"Ali", "Sara"}, NormalizeToArray([]string{"Ali", "Sara"}))
	assert.Equal(t, []string{"Ali"}, NormalizeToArray(core.NamesOf("Ali")))
	assert.Nil(t, NormalizeToArray(nil))
}

func TestNamesMatch(t *testing.T) {
	tests := []struct {
		name   string
		record core.Names
		search string
		want   bool
	}{
		{"blank search matches", core.NamesOf("Ali"), "  ", true},
		{"blank search matches empty record", nil, "", true},
		{"case-insensitive substring", core.NamesOf("Ali - Sara"), "sar", true},
		{"search tokens split on slash", core.NamesOf("Omar"), "Khaled / omar", true},
		{"array record", core.NamesOf("Ali", "Sara"), "sara", true},
		{"array elements kept whole", core.NamesOf("Ali-Hassan", "Sara"), "hassan", true},
		{"blank array elements ignored", core.NamesOf(" ", "Sara"), "sara", true},
		{"no hit", core.NamesOf("Ali - Sara"), "Omar", false},
		{"not reverse containment", core.NamesOf("Ali"), "Alia", false},
		{"arabic", core.NamesOf("أحمد - محمود"), "محمود", true},
		{"empty record", nil, "Ali", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NamesMatch(tt.record, tt.search))
		})
	}
}

func TestMatchesSelectedList(t *testing.T) {
	records := []core.Names{nil, core.NamesOf(""), core.NamesOf("Ali - Sara"), core.NamesOf("x", "y")}

	t.Run("empty and sentinel lists always match", func(t *testing.T) {
		for _, r := range records {
			assert.True(t, MatchesSelectedList(r, nil))
			assert.True(t, MatchesSelectedList(r, []string{}))
			assert.True(t, MatchesSelectedList(r, []string{"ALL"}))
			assert.True(t, MatchesSelectedList(r, []string{"Omar", "الكل"}))
		}
	})

	t.Run("token split and case-insensitive", func(t *testing.T) {
		assert.True(t, MatchesSelectedList(core.NamesOf("Ali - Sara"), []string{"ali"}))
	})

	t.Run("selected entry contains record token", func(t *testing.T) {
		assert.True(t, MatchesSelectedList(core.NamesOf("Ali"), []string{"Ali Hassan"}))
	})

	t.Run("no overlap", func(t *testing.T) {
		assert.False(t, MatchesSelectedList(core.NamesOf("Ali - Sara"), []string{"Omar"}))
	})

	t.Run("only the combined string form is split", func(t *testing.T) {
		selected := []string{"Hassan Omar"}
		assert.True(t, MatchesSelectedList(core.NamesOf("Ali-Hassan"), selected))
		assert.False(t, MatchesSelectedList(core.NamesOf("Ali-Hassan", "Sara"), selected))
		assert.False(t, MatchesSelectedList(core.NamesOf("", " "), selected))
	})
}

func TestMatchesWorkPlace(t *testing.T) {
	assert.True(t, MatchesWorkPlace(core.NamesOf("Central Pharmacy"), ""))
	assert.True(t, MatchesWorkPlace(core.NamesOf("North", "Central Pharmacy"), "central"))
	assert.False(t, MatchesWorkPlace(core.NamesOf("Central Pharmacy"), "Central Pharmacy East"))
	assert.False(t, MatchesWorkPlace(nil, "central"))
}

func TestMatchesSelectedWorkPlaces(t *testing.T) {
	record := core.NamesOf("Central Pharmacy")

	assert.True(t, MatchesSelectedWorkPlaces(record, nil))
	assert.True(t, MatchesSelectedWorkPlaces(record, []string{"ALL"}))
	assert.True(t, MatchesSelectedWorkPlaces(record, []string{"central"}))
	assert.False(t, MatchesSelectedWorkPlaces(record, []string{"Central Pharmacy East"}))
}

// The selected inspector list matches in both directions while the selected
// workplace list only matches when the record contains the selection.
func TestSelectedListAsymmetry(t *testing.T) {
	record := core.NamesOf("Central Pharmacy")
	selected := []string{"Central Pharmacy East"}

	assert.True(t, MatchesSelectedList(record, selected))
	assert.False(t, MatchesSelectedWorkPlaces(record, selected))
}

func TestMatchesViolationText(t *testing.T) {
	record := &core.Record{
		InspectionResults: core.InspectionResults{
			"storage":                       {"Temperature log missing"},
			core.SectionInventoryManagement: {"expired stock found"},
		},
	}

	assert.True(t, MatchesViolationText(record, ""))
	assert.True(t, MatchesViolationText(record, "temperature"))
	assert.True(t, MatchesViolationText(record, "EXPIRED"))
	assert.False(t, MatchesViolationText(record, "license"))
	assert.False(t, MatchesViolationText(&core.Record{}, "license"))
	assert.False(t, MatchesViolationText(nil, "x"))
}

func TestMatchesInventoryType(t *testing.T) {
	record := &core.Record{
		InspectionResults: core.InspectionResults{
			"storage":                       {"Temperature log missing"},
			core.SectionInventoryManagement: {"expired stock found"},
		},
	}

	assert.True(t, MatchesInventoryType(record, "expired"))
	assert.True(t, MatchesInventoryType(record, ""))
	assert.False(t, MatchesInventoryType(record, "temperature"))

	noSection := &core.Record{InspectionResults: core.InspectionResults{"storage": {"expired"}}}
	assert.False(t, MatchesInventoryType(noSection, "expired"))
	assert.True(t, MatchesInventoryType(noSection, " "))
}

func TestIsOwnedByUser(t *testing.T) {
	record := &core.Record{BasicData: core.BasicData{InspectorName: core.NamesOf("Ali", "Sara")}}

	assert.False(t, IsOwnedByUser(record, ""))
	assert.False(t, IsOwnedByUser(record, "   "))
	assert.True(t, IsOwnedByUser(record, "sara"))
	assert.True(t, IsOwnedByUser(record, "Ali, Sara"))
	assert.False(t, IsOwnedByUser(record, "Omar"))
	assert.False(t, IsOwnedByUser(&core.Record{}, ""))
}
