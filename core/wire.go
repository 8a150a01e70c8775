package core

import "strings"

// DefaultCreatedBy is recorded as the creator when none is given.
const DefaultCreatedBy = "admin"

// NewRecordRequest is the body of a record creation call.
// Field names follow the REST surface, not the stored record.
type NewRecordRequest struct {
	Day               string            `json:"day"`
	Date              string            `json:"date"`
	Time              string            `json:"time"`
	InstitutionName   string            `json:"institution_name"`
	Location          string            `json:"location"`
	PharmacistName    string            `json:"pharmacist_name"`
	InspectionReason  string            `json:"inspection_reason"`
	InspectorName     string            `json:"inspector_name"`
	WorkEntities      Names             `json:"work_entities"`
	InspectionResults InspectionResults `json:"inspection_results"`
	Recommendations   string            `json:"recommendations"`
	CreatedBy         string            `json:"created_by"`
}

// NewRecordRequestFrom builds a creation body from a draft record.
// Inspector names are joined with ", ", workplaces are always sent as a list
// and a blank creator becomes DefaultCreatedBy.
func NewRecordRequestFrom(record *Record) *NewRecordRequest {
	bd := record.BasicData
	createdBy := record.CreatedBy
	if strings.TrimSpace(createdBy) == "" {
		createdBy = DefaultCreatedBy
	}
	workEntities := bd.WorkPlace
	if workEntities == nil {
		workEntities = Names{}
	}
	return &NewRecordRequest{
		Day:               bd.Day,
		Date:              bd.Date,
		Time:              bd.Time,
		InstitutionName:   bd.InstitutionName,
		Location:          bd.InspectionLocation,
		PharmacistName:    bd.PresentPharmacist,
		InspectionReason:  bd.InspectionReason,
		InspectorName:     bd.InspectorName.String(),
		WorkEntities:      workEntities,
		InspectionResults: record.InspectionResults,
		Recommendations:   record.Recommendations,
		CreatedBy:         createdBy,
	}
}

// Record converts the request into an unsaved record.
func (r *NewRecordRequest) Record() *Record {
	createdBy := r.CreatedBy
	if strings.TrimSpace(createdBy) == "" {
		createdBy = DefaultCreatedBy
	}
	var inspectors Names
	if strings.TrimSpace(r.InspectorName) != "" {
		inspectors = NamesOf(r.InspectorName)
	}
	results := r.InspectionResults
	if results == nil {
		results = InspectionResults{}
	}
	return &Record{
		BasicData: BasicData{
			Day:                r.Day,
			Date:               r.Date,
			Time:               r.Time,
			InstitutionName:    r.InstitutionName,
			InspectionLocation: r.Location,
			PresentPharmacist:  r.PharmacistName,
			InspectionReason:   r.InspectionReason,
			InspectorName:      inspectors,
			WorkPlace:          r.WorkEntities,
		},
		InspectionResults: results,
		Recommendations:   r.Recommendations,
		CreatedBy:         createdBy,
	}
}
