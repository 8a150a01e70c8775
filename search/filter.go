package search

import (
	"strings"

	"github.com/poiesic/pharmainspect/core"
)

// IsEmpty reports whether no field of c constrains a search.
func IsEmpty(c core.Criteria) bool {
	return IsUnconstrained(c.InstitutionName) &&
		IsUnconstrained(c.InspectionLocation) &&
		IsUnconstrained(c.PresentPharmacist) &&
		IsUnconstrained(c.DateFrom) &&
		IsUnconstrained(c.DateTo) &&
		IsUnconstrained(c.ViolationText) &&
		IsUnconstrained(c.WorkPlace) &&
		IsUnconstrained(c.InventoryType) &&
		IsUnconstrained(c.InspectorName) &&
		IsUnconstrained(c.SelectedInspectors) &&
		IsUnconstrained(c.SelectedWorkPlaces)
}

// Filter returns the records satisfying every active criterion, in their
// original order. Records are never modified.
//
// When myRecords is set only records owned by user are kept; a nil user then
// owns nothing. With no active criterion and myRecords unset the input slice
// itself is returned.
func Filter(records []*core.Record, c core.Criteria, user *core.User, myRecords bool) []*core.Record {
	if !myRecords && IsEmpty(c) {
		return records
	}

	userName := ""
	if user != nil {
		userName = user.Name
	}

	filtered := make([]*core.Record, 0, len(records))
	for _, record := range records {
		if matches(record, c, userName, myRecords) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

func matches(record *core.Record, c core.Criteria, userName string, myRecords bool) bool {
	if record == nil {
		return false
	}
	bd := &record.BasicData

	if !inDateRange(bd.Date, c.DateFrom, c.DateTo) {
		return false
	}
	if !containsCriterion(bd.InstitutionName, c.InstitutionName) ||
		!containsCriterion(bd.InspectionLocation, c.InspectionLocation) ||
		!containsCriterion(bd.PresentPharmacist, c.PresentPharmacist) {
		return false
	}

	if len(c.SelectedInspectors) > 0 {
		if !MatchesSelectedList(bd.InspectorName, c.SelectedInspectors) {
			return false
		}
	} else if !NamesMatch(bd.InspectorName, c.InspectorName) {
		return false
	}

	if len(c.SelectedWorkPlaces) > 0 {
		if !MatchesSelectedWorkPlaces(bd.WorkPlace, c.SelectedWorkPlaces) {
			return false
		}
	} else if !MatchesWorkPlace(bd.WorkPlace, c.WorkPlace) {
		return false
	}

	if !MatchesViolationText(record, c.ViolationText) ||
		!MatchesInventoryType(record, c.InventoryType) {
		return false
	}

	if myRecords && !IsOwnedByUser(record, userName) {
		return false
	}
	return true
}

// inDateRange compares ISO dates lexically. Blank bounds are open.
func inDateRange(date, from, to string) bool {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

func containsCriterion(value, criterion string) bool {
	if IsUnconstrained(criterion) {
		return true
	}
	return containsFold(value, strings.TrimSpace(criterion))
}
