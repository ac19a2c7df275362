package ingest

// validate.go partitions normalized records into valid, invalid and
// duplicate sets. Checks run per record in a fixed order and stop at the
// first failure, so every record gets exactly one outcome. The duplicate
// scan is keyed by normalized email and "first seen" is defined by input
// order; the seen-set lives on the stack of a single Validate call, which
// keeps the pipeline re-entrant across concurrent imports.

import "strings"

// Validation reasons surfaced to end users for correction and re-upload.
const (
	ReasonEmailRequired   = "Email required"
	ReasonInvalidEmail    = "Invalid email"
	ReasonCompanyRequired = "Company name required"
)

// InvalidProspect is a record that failed a required-field or format check,
// with the human-readable reasons.
type InvalidProspect struct {
	Record  ProspectRecord `json:"record"`
	Reasons []string       `json:"reasons"`
}

// DuplicateProspect is a record whose email was already seen earlier in the
// batch. Duplicates are an expected classification, not an error, and carry
// a back-reference to the first occurrence.
type DuplicateProspect struct {
	Email         string `json:"email"`
	Line          int    `json:"line"`
	FirstSeenLine int    `json:"firstSeenLine"`
}

// Partition is the outcome of validating a batch. The three sets cover the
// input exactly: len(Valid)+len(Invalid)+len(Duplicates) equals the number
// of records passed in.
type Partition struct {
	Valid      []ProspectRecord
	Invalid    []InvalidProspect
	Duplicates []DuplicateProspect
}

// Validate classifies each record as valid, invalid or duplicate. The first
// record with a given email that passes the required-field checks is valid;
// any later record with the same email is a duplicate regardless of its
// other fields.
func Validate(records []ProspectRecord) Partition {
	var p Partition
	firstSeen := make(map[string]int, len(records))

	for _, r := range records {
		if reason := requiredFieldReason(r); reason != "" {
			p.Invalid = append(p.Invalid, InvalidProspect{
				Record:  r,
				Reasons: []string{reason},
			})
			continue
		}
		if first, ok := firstSeen[r.Email]; ok {
			p.Duplicates = append(p.Duplicates, DuplicateProspect{
				Email:         r.Email,
				Line:          r.Line,
				FirstSeenLine: first,
			})
			continue
		}
		firstSeen[r.Email] = r.Line
		p.Valid = append(p.Valid, r)
	}
	return p
}

// requiredFieldReason returns the first failed required-field check, or ""
// when the record passes them all.
func requiredFieldReason(r ProspectRecord) string {
	switch {
	case r.Email == "":
		return ReasonEmailRequired
	case !emailPattern.MatchString(r.Email):
		return ReasonInvalidEmail
	case strings.TrimSpace(r.Company) == "":
		return ReasonCompanyRequired
	}
	return ""
}
