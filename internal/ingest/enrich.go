package ingest

// enrich.go annotates valid records with best-effort heuristics: a company
// size bucket derived from the employee count and industries inferred from
// keyword matches against the company name and description. Annotations are
// never required and never remove a record from the result; a record with
// nothing to infer passes through unannotated.

import (
	"strconv"
	"strings"
)

// EnrichedProspect is a valid normalized record plus optional annotations.
type EnrichedProspect struct {
	ProspectRecord
	CompanySizeBucket string   `json:"companySizeBucket,omitempty"`
	Industries        []string `json:"inferredIndustries,omitempty"`
}

// sizeBuckets maps employee-count ceilings to bucket labels, smallest
// first. Counts above the last ceiling are "enterprise".
var sizeBuckets = []struct {
	Max   int
	Label string
}{
	{10, "startup"},
	{50, "small"},
	{200, "medium"},
	{1000, "large"},
}

const bucketEnterprise = "enterprise"

// industryKeywords is the curated keyword -> industry table. Matching is a
// case-insensitive substring test over the company name and description; a
// company may land in zero, one or several industries. The table is plain
// configuration data so regional adjustments stay out of the code.
var industryKeywords = []struct {
	Industry string
	Keywords []string
}{
	{"Technology", []string{"ai", "tech", "software", "cloud", "saas", "cyber", "digital"}},
	{"Finance", []string{"fintech", "finance", "financial", "bank", "insurance", "capital", "invest"}},
	{"Healthcare", []string{"health", "medical", "clinic", "pharma", "biotech", "hospital", "dental"}},
	{"Retail", []string{"retail", "shop", "store", "ecommerce", "e-commerce", "boutique"}},
	{"Manufacturing", []string{"manufactur", "factory", "industrial", "machin"}},
	{"Education", []string{"education", "school", "university", "academy", "learning"}},
	{"Real Estate", []string{"real estate", "realty", "property", "immobilier"}},
	{"Consulting", []string{"consult", "advisory", "conseil"}},
	{"Marketing", []string{"marketing", "advertis", "agency", "communication"}},
	{"Energy", []string{"energy", "solar", "renewable", "petrol", "utilities"}},
}

// Enrich annotates records that passed validation. Output order matches the
// input, and the caller's own industry value is never overwritten; inferred
// industries live alongside it.
func Enrich(valid []ProspectRecord) []EnrichedProspect {
	out := make([]EnrichedProspect, len(valid))
	for i, r := range valid {
		out[i] = EnrichedProspect{
			ProspectRecord:    r,
			CompanySizeBucket: sizeBucket(r.Employees),
			Industries:        inferIndustries(r.Company, r.Description),
		}
	}
	return out
}

// sizeBucket buckets an employee count. Exports hand us counts as plain
// numbers ("150"), with separators ("1,200") or as ranges ("51-200"); a
// range is bucketed by its upper bound. Absent or unparseable counts leave
// the bucket unset.
func sizeBucket(employees string) string {
	s := strings.TrimSpace(employees)
	if s == "" {
		return ""
	}
	if parts := strings.Split(s, "-"); len(parts) == 2 {
		s = parts[1]
	}
	s = strings.TrimSuffix(s, "+")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return ""
	}
	for _, b := range sizeBuckets {
		if n <= b.Max {
			return b.Label
		}
	}
	return bucketEnterprise
}

// inferIndustries matches the keyword table against the company name and
// description. Labels come back in table order, at most once each.
func inferIndustries(company, description string) []string {
	haystack := strings.ToLower(strings.TrimSpace(company + " " + description))
	if haystack == "" {
		return nil
	}

	var industries []string
	for _, entry := range industryKeywords {
		for _, kw := range entry.Keywords {
			if strings.Contains(haystack, kw) {
				industries = append(industries, entry.Industry)
				break
			}
		}
	}
	return industries
}
