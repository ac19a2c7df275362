// Package ingest turns user-supplied CSV exports of sales leads into
// validated, deduplicated, enriched prospect records ready for storage and
// qualification. This package has no I/O dependencies beyond the reader it
// is handed and can be driven by any frontend.
//
// The pipeline is a fixed sequence of stages: dialect-aware row parsing,
// header detection, record projection, per-field normalization, validation
// and heuristic enrichment. Every stage is pure; the only cross-record state
// is the duplicate-detection scan inside Validate, and that is scoped to a
// single call so concurrent imports never share anything.
package ingest

// Field names one canonical prospect attribute. All recognized header
// spellings are mapped onto these names before any record is built.
type Field string

const (
	FieldEmail         Field = "email"
	FieldFirstName     Field = "firstName"
	FieldLastName      Field = "lastName"
	FieldCompany       Field = "company"
	FieldJobTitle      Field = "jobTitle"
	FieldPhone         Field = "phone"
	FieldLinkedinURL   Field = "linkedinUrl"
	FieldLocation      Field = "location"
	FieldNotes         Field = "notes"
	FieldEmployees     Field = "employees"
	FieldIndustry      Field = "industry"
	FieldDescription   Field = "description"
	FieldCompanyDomain Field = "companyDomain"
)

// ProspectRecord holds one data row keyed by canonical field, plus the
// 1-based source line it came from for error reporting. The same shape
// carries both raw values (straight from the CSV) and normalized values;
// Normalize returns a transformed copy, so a normalized record is never
// mutated after it is produced.
type ProspectRecord struct {
	Line          int    `json:"line"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Company       string `json:"company,omitempty"`
	CompanyDomain string `json:"companyDomain,omitempty"`
	JobTitle      string `json:"jobTitle,omitempty"`
	Phone         string `json:"phone,omitempty"`
	LinkedinURL   string `json:"linkedinUrl,omitempty"`
	Location      string `json:"location,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Employees     string `json:"employees,omitempty"`
	Industry      string `json:"industry,omitempty"`
	Description   string `json:"description,omitempty"`
}

func (r *ProspectRecord) set(f Field, v string) {
	switch f {
	case FieldEmail:
		r.Email = v
	case FieldFirstName:
		r.FirstName = v
	case FieldLastName:
		r.LastName = v
	case FieldCompany:
		r.Company = v
	case FieldCompanyDomain:
		r.CompanyDomain = v
	case FieldJobTitle:
		r.JobTitle = v
	case FieldPhone:
		r.Phone = v
	case FieldLinkedinURL:
		r.LinkedinURL = v
	case FieldLocation:
		r.Location = v
	case FieldNotes:
		r.Notes = v
	case FieldEmployees:
		r.Employees = v
	case FieldIndustry:
		r.Industry = v
	case FieldDescription:
		r.Description = v
	}
}

// Get returns the value of a canonical field.
func (r ProspectRecord) Get(f Field) string {
	switch f {
	case FieldEmail:
		return r.Email
	case FieldFirstName:
		return r.FirstName
	case FieldLastName:
		return r.LastName
	case FieldCompany:
		return r.Company
	case FieldCompanyDomain:
		return r.CompanyDomain
	case FieldJobTitle:
		return r.JobTitle
	case FieldPhone:
		return r.Phone
	case FieldLinkedinURL:
		return r.LinkedinURL
	case FieldLocation:
		return r.Location
	case FieldNotes:
		return r.Notes
	case FieldEmployees:
		return r.Employees
	case FieldIndustry:
		return r.Industry
	case FieldDescription:
		return r.Description
	}
	return ""
}
