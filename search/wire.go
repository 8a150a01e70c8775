package search

import (
	"strings"

	"github.com/poiesic/pharmainspect/core"
)

// Wire query parameter names understood by the remote search endpoint.
const (
	WireInstitutionName = "institution_name"
	WireLocation        = "location"
	WirePharmacistName  = "pharmacist_name"
	WireDateFrom        = "date_from"
	WireDateTo          = "date_to"
	WireViolationsText  = "violations_text"
	WireWorkEntities    = "work_entities"
)

// WireKeys maps criteria keys to the remote query parameter names.
// Criteria without an entry are applied locally only.
var WireKeys = map[string]string{
	"institutionName":    WireInstitutionName,
	"inspectionLocation": WireLocation,
	"presentPharmacist":  WirePharmacistName,
	"dateFrom":           WireDateFrom,
	"dateTo":             WireDateTo,
	"violationText":      WireViolationsText,
	"workPlace":          WireWorkEntities,
}

// criteriaFields returns the remotely searchable criteria by internal key.
func criteriaFields(c core.Criteria) map[string]string {
	return map[string]string{
		"institutionName":    c.InstitutionName,
		"inspectionLocation": c.InspectionLocation,
		"presentPharmacist":  c.PresentPharmacist,
		"dateFrom":           c.DateFrom,
		"dateTo":             c.DateTo,
		"violationText":      c.ViolationText,
		"workPlace":          c.WorkPlace,
	}
}

// WireParams trims every remotely searchable criterion, drops the blank ones
// and renames the rest to their wire names.
func WireParams(c core.Criteria) map[string]string {
	params := make(map[string]string, len(WireKeys))
	for key, value := range criteriaFields(c) {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		params[WireKeys[key]] = value
	}
	return params
}

// CriteriaFromWire rebuilds criteria from wire query parameters.
// Unknown parameters are ignored.
func CriteriaFromWire(params map[string]string) core.Criteria {
	get := func(key string) string {
		return strings.TrimSpace(params[key])
	}
	return core.Criteria{
		InstitutionName:    get(WireInstitutionName),
		InspectionLocation: get(WireLocation),
		PresentPharmacist:  get(WirePharmacistName),
		DateFrom:           get(WireDateFrom),
		DateTo:             get(WireDateTo),
		ViolationText:      get(WireViolationsText),
		WorkPlace:          get(WireWorkEntities),
	}
}
