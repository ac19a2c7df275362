package ingest

// normalize.go applies the per-field canonical transforms. Transforms are
// field-local and order-independent, and normalization never fails: values
// that are empty or malformed pass through unchanged for the validator to
// flag, so no data is silently lost before validation can report it.

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// emailPattern is the local@domain.tld shape a prospect email must have.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeOptions configures the value-level transforms.
type NormalizeOptions struct {
	// DefaultCountryCode is prefixed to 10-digit phone numbers that carry
	// no country code of their own. Empty means "1".
	DefaultCountryCode string
}

// Normalize returns a copy of r with values in canonical form: lower-cased
// email, title-cased name tokens, E.164-like phone, absolute LinkedIn URL
// and, when derivable, the company domain taken from the email.
func Normalize(r ProspectRecord, opts NormalizeOptions) ProspectRecord {
	n := r
	n.Email = strings.ToLower(strings.TrimSpace(r.Email))
	n.FirstName = normalizeName(r.FirstName)
	n.LastName = normalizeName(r.LastName)
	n.Company = strings.TrimSpace(r.Company)
	n.Phone = normalizePhone(r.Phone, opts.DefaultCountryCode)
	n.LinkedinURL = normalizeLinkedinURL(r.LinkedinURL)
	if n.CompanyDomain == "" && emailPattern.MatchString(n.Email) {
		n.CompanyDomain = n.Email[strings.LastIndexByte(n.Email, '@')+1:]
	}
	return n
}

// normalizeName title-cases name tokens that arrive in a single case (JEAN,
// jean) while passing mixed-case tokens through untouched, so locale-correct
// casing already present in the source (McDonald, van der Berg) is never
// corrupted. Tokens are split on whitespace and hyphens and the separators
// are retained, so JEAN-PIERRE becomes Jean-Pierre.
func normalizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var out strings.Builder
	out.Grow(len(s))
	var token []rune
	flush := func() {
		if len(token) == 0 {
			return
		}
		out.WriteString(normalizeNameToken(token))
		token = token[:0]
	}
	for _, ch := range s {
		if unicode.IsSpace(ch) || ch == '-' {
			flush()
			out.WriteRune(ch)
			continue
		}
		token = append(token, ch)
	}
	flush()
	return out.String()
}

func normalizeNameToken(token []rune) string {
	hasUpper, hasLower := false, false
	for _, ch := range token {
		if unicode.IsUpper(ch) {
			hasUpper = true
		}
		if unicode.IsLower(ch) {
			hasLower = true
		}
	}
	if hasUpper && hasLower {
		// Mixed case came from the source; leave it alone.
		return string(token)
	}
	cased := make([]rune, len(token))
	for i, ch := range token {
		if i == 0 {
			cased[i] = unicode.ToUpper(ch)
		} else {
			cased[i] = unicode.ToLower(ch)
		}
	}
	return string(cased)
}

// normalizePhone reduces a phone value to leading '+' plus digits. An
// 11-digit number is assumed to start with its country code; a 10-digit
// number gets the configured default country code. Anything else is left as
// the bare digit string rather than guessed at.
func normalizePhone(s, countryCode string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if countryCode == "" {
		countryCode = "1"
	}

	hasPlus := strings.HasPrefix(s, "+")
	var digits strings.Builder
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			digits.WriteRune(ch)
		}
	}
	d := digits.String()

	switch {
	case hasPlus:
		return "+" + d
	case len(d) == 11:
		return "+" + d
	case len(d) == 10:
		return "+" + countryCode + d
	default:
		return d
	}
}

// normalizeLinkedinURL makes the URL absolute (https:// when no scheme is
// present) and lower-cases the host portion only, preserving the case of
// the profile path.
func normalizeLinkedinURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
