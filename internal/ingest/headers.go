package ingest

// headers.go maps user-supplied CSV headers onto canonical prospect fields.
//
// Lead exports name their columns every which way ("Email Address",
// "courriel", "E-MAIL", "first_name"), so headers are compared in a
// normalized form: lowercase, trimmed, diacritics stripped, underscores and
// whitespace runs collapsed to a single space. Matching is exact against a
// per-field alias table, evaluated in a fixed priority order so a header
// that matches two fields' aliases is claimed exactly once by the
// higher-priority field. The alias and priority tables are plain data,
// which keeps the resolution rule auditable.

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// HeaderMapping maps each detected canonical field to the source column
// index that satisfies it. Unmapped canonical fields are absent; unmapped
// source columns are ignored.
type HeaderMapping map[Field]int

// fieldPriority fixes the order canonical fields claim columns in. Earlier
// fields win ambiguous headers.
var fieldPriority = []Field{
	FieldEmail,
	FieldLastName,
	FieldFirstName,
	FieldCompany,
	FieldJobTitle,
	FieldPhone,
	FieldLinkedinURL,
	FieldLocation,
	FieldNotes,
	FieldEmployees,
	FieldIndustry,
	FieldDescription,
	FieldCompanyDomain,
}

// headerAliases lists the recognized spellings per canonical field, English
// and French. Entries are stored pre-normalized: lowercase, single spaces,
// no diacritics (so "prénom" and "prenom" both resolve).
var headerAliases = map[Field][]string{
	FieldEmail: {
		"email", "e-mail", "e mail", "mail", "email address",
		"courriel", "adresse email", "adresse e-mail", "adresse courriel",
	},
	FieldLastName: {
		"last name", "lastname", "last", "surname", "family name",
		"nom", "nom de famille",
	},
	FieldFirstName: {
		"first name", "firstname", "first", "given name",
		"prenom",
	},
	FieldCompany: {
		"company", "company name", "account name", "organization",
		"organisation", "employer",
		"entreprise", "societe", "compagnie",
	},
	FieldJobTitle: {
		"title", "job title", "jobtitle", "position", "role", "job",
		"poste", "fonction", "titre", "intitule du poste",
	},
	FieldPhone: {
		"phone", "phone number", "phone no", "mobile", "mobile phone",
		"cell", "telephone",
		"tel", "numero de telephone", "portable",
	},
	FieldLinkedinURL: {
		"linkedin", "linkedin url", "linkedin profile", "linkedin link",
		"profil linkedin", "lien linkedin",
	},
	FieldLocation: {
		"location", "city", "region", "country",
		"ville", "localisation", "lieu", "pays",
	},
	FieldNotes: {
		"notes", "note", "comments", "comment", "remarks",
		"commentaire", "commentaires", "remarques",
	},
	FieldEmployees: {
		"employees", "employee count", "number of employees",
		"num employees", "headcount", "company size", "size",
		"effectif", "effectifs", "nombre d'employes", "nombre de salaries",
	},
	FieldIndustry: {
		"industry", "sector", "vertical",
		"industrie", "secteur", "secteur d'activite",
	},
	FieldDescription: {
		"description", "company description", "about", "summary",
		"a propos",
	},
	FieldCompanyDomain: {
		"domain", "company domain", "website",
		"domaine", "site web",
	},
}

// aliasSets indexes headerAliases for O(1) lookup during detection.
var aliasSets = func() map[Field]map[string]bool {
	sets := make(map[Field]map[string]bool, len(headerAliases))
	for field, aliases := range headerAliases {
		set := make(map[string]bool, len(aliases))
		for _, a := range aliases {
			set[a] = true
		}
		sets[field] = set
	}
	return sets
}()

// DetectHeaders maps a header row onto canonical fields. The result is
// deterministic for a given header row: fields are evaluated in priority
// order, columns are scanned left to right, and a claimed column is removed
// from consideration for later fields. Columns matching no alias are simply
// left out.
func DetectHeaders(headerRow []string) HeaderMapping {
	normalized := make([]string, len(headerRow))
	for i, h := range headerRow {
		normalized[i] = normalizeHeader(h)
	}

	mapping := make(HeaderMapping)
	claimed := make(map[int]bool, len(headerRow))
	for _, field := range fieldPriority {
		set := aliasSets[field]
		for i, h := range normalized {
			if claimed[i] || !set[h] {
				continue
			}
			mapping[field] = i
			claimed[i] = true
			break
		}
	}
	return mapping
}

// normalizeHeader puts a raw header into canonical comparison form.
func normalizeHeader(h string) string {
	h = cleanCell(h)
	h = strings.ToLower(strings.TrimSpace(h))
	h = stripDiacritics(h)
	h = strings.ReplaceAll(h, "_", " ")
	return strings.Join(strings.Fields(h), " ")
}

// stripDiacritics removes combining marks so accented and unaccented
// spellings compare equal ("téléphone" == "telephone").
func stripDiacritics(s string) string {
	// The chain carries internal buffers, so build it per call rather than
	// sharing one across concurrent imports.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
