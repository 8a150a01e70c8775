package core

//go:generate go run ../cmd/musgen

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID is an opaque identifier for domain entities.
type ID string

// NewID returns a fresh random identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// IsZero reports whether the identifier is blank.
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// SectionInventoryManagement is the inspection-results section that holds
// inventory management violations.
const SectionInventoryManagement = "inventoryManagement"

// InspectionResults maps a section name to its ordered violation texts.
type InspectionResults map[string][]string

// BasicData is the header block of an inspection report.
type BasicData struct {
	Day                string `json:"day"`
	Date               string `json:"date"` // YYYY-MM-DD
	Time               string `json:"time"`
	InstitutionName    string `json:"institutionName"`
	InspectionLocation string `json:"inspectionLocation"`
	PresentPharmacist  string `json:"presentPharmacist"`
	InspectionReason   string `json:"inspectionReason"`
	InspectorName      Names  `json:"inspectorName"`
	WorkPlace          Names  `json:"workPlace"`
}

// Record is one inspection report.
type Record struct {
	ID                ID                `json:"id"`
	SerialNumber      string            `json:"serialNumber"`
	BasicData         BasicData         `json:"basicData"`
	InspectionResults InspectionResults `json:"inspectionResults"`
	Recommendations   string            `json:"recommendations"`
	CreatedAt         time.Time         `json:"createdAt"`
	CreatedBy         string            `json:"createdBy"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// RecordPatch carries a partial update. Nil fields are left unchanged.
type RecordPatch struct {
	BasicData         *BasicData        `json:"basicData,omitempty"`
	InspectionResults InspectionResults `json:"inspectionResults,omitempty"`
	Recommendations   *string           `json:"recommendations,omitempty"`
}

// Apply copies the set fields of the patch onto the record.
func (p *RecordPatch) Apply(record *Record) {
	if p == nil || record == nil {
		return
	}
	if p.BasicData != nil {
		record.BasicData = *p.BasicData
	}
	if p.InspectionResults != nil {
		record.InspectionResults = p.InspectionResults
	}
	if p.Recommendations != nil {
		record.Recommendations = *p.Recommendations
	}
}

// Criteria is the set of user supplied search constraints for one query.
// An empty string or empty list means "no constraint" for that field.
type Criteria struct {
	InstitutionName    string   `json:"institutionName,omitempty"`
	InspectionLocation string   `json:"inspectionLocation,omitempty"`
	PresentPharmacist  string   `json:"presentPharmacist,omitempty"`
	DateFrom           string   `json:"dateFrom,omitempty"`
	DateTo             string   `json:"dateTo,omitempty"`
	ViolationText      string   `json:"violationText,omitempty"`
	WorkPlace          string   `json:"workPlace,omitempty"`
	InventoryType      string   `json:"inventoryType,omitempty"`
	InspectorName      string   `json:"inspectorName,omitempty"`
	SelectedInspectors []string `json:"selectedInspectors,omitempty"`
	SelectedWorkPlaces []string `json:"selectedWorkPlaces,omitempty"`
}

// Role identifies what a user may see and manage.
type Role string

const (
	RoleManager   Role = "manager"
	RoleInspector Role = "inspector"
)

// User is a locally persisted application user.
type User struct {
	ID                       ID       `json:"id"`
	Username                 string   `json:"username"`
	Password                 string   `json:"password"`
	Name                     string   `json:"name"`
	Role                     Role     `json:"role"`
	AdministrativeWorkPlaces []string `json:"administrativeWorkPlaces"`
}

// Attachment describes a file attached to a record.
type Attachment struct {
	ID          ID        `json:"id"`
	Name        string    `json:"name"`
	FilePath    string    `json:"filePath"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	RecordID    ID        `json:"recordId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Notification is a message addressed to one user, optionally about a record.
type Notification struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	RecordID  ID        `json:"recordId,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Page is one slice of a paginated record listing.
type Page struct {
	Records []*Record `json:"records"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
	Pages   int       `json:"pages"`
}
