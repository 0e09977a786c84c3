package extract

import (
	"regexp"
	"strings"
)

var contactNamePatterns = []*regexp.Regexp{
	// "meu nome é João Silva", "me chamo João Silva"
	regexp.MustCompile(`(?i)(?:meu\s+nome\s+é|sou\s+o|sou\s+a|chamo-me|me\s+chamo)\s+([A-ZÁÉÍÓÚÂÊÔÇ][a-záéíóúâêôçãõ]+(?:\s+[A-ZÁÉÍÓÚÂÊÔÇ][a-záéíóúâêôçãõ]+)+)`),
	// "João Silva, diretor"
	regexp.MustCompile(`(?i)^([A-ZÁÉÍÓÚÂÊÔÇ][a-záéíóúâêôçãõ]+(?:\s+[A-ZÁÉÍÓÚÂÊÔÇ][a-záéíóúâêôçãõ]+)+)\s*[,;]\s*(?:diretor|gerente|ceo|cto|cfo)`),
}

// contactName requires a 2-5 word capitalized name.
func contactName(text string) *string {
	for _, re := range contactNamePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if words := len(strings.Fields(name)); words >= 2 && words <= 5 {
			return &name
		}
	}
	return nil
}

var contactTitleFallback = regexp.MustCompile(`(?i)(?:sou|é)\s+(?:o|a)?\s*([a-záéíóúâêôçãõ]+(?:\s+de\s+[a-záéíóúâêôçãõ]+)?)`)

// contactTitle checks the known role vocabulary first, then a loose
// "sou <cargo> de <área>" fallback.
func contactTitle(text, lowered string) *string {
	if v, ok := firstKeyword(lowered, contactTitles); ok {
		t := capitalizeFirst(v)
		return &t
	}
	if m := contactTitleFallback.FindStringSubmatch(text); m != nil {
		t := strings.TrimSpace(m[1])
		return &t
	}
	return nil
}

var emailPattern = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)

// contactEmail returns the first corporate-domain address when several
// emails appear, otherwise the first address found.
func contactEmail(text string) *string {
	matches := emailPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	for _, m := range matches {
		email := strings.ToLower(m)
		if at := strings.LastIndex(email, "@"); at >= 0 && !publicEmailDomains[email[at+1:]] {
			return &email
		}
	}
	first := strings.ToLower(matches[0])
	return &first
}

// NormalizeEmail lowercases and strips all whitespace.
func NormalizeEmail(email string) string {
	return strings.Join(strings.Fields(strings.ToLower(email)), "")
}

// IsCorporateEmail reports whether the address domain is not a known
// public webmail provider.
func IsCorporateEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	return !publicEmailDomains[strings.ToLower(email[at+1:])]
}

// Phone patterns are matched against the text with whitespace removed.
// Patterns with capture groups contribute only the national digits
// (DDD + number), so country codes and trunk zeros never leak into
// the normalized result.
var phonePatterns = []*regexp.Regexp{
	// +55 11 98765-4321
	regexp.MustCompile(`\+55(\d{2})(\d{4,5}[-.]?\d{4})`),
	// (11) 98765-4321
	regexp.MustCompile(`\((\d{2})\)(\d{4,5}[-.]?\d{4})`),
	// 011988887777, trunk zero before an 11-digit mobile number
	regexp.MustCompile(`\b0(\d{2})(\d{5}[-.]?\d{4})`),
	// 11 98765-4321
	regexp.MustCompile(`(\d{2})(\d{4,5}[-.]?\d{4})`),
	// bare digit run
	regexp.MustCompile(`(\d{10,11})`),
}

// contactPhone normalizes Brazilian numbers to +55 plus 10 or 11
// national digits.
func contactPhone(text string) *string {
	clean := strings.Join(strings.Fields(text), "")
	for _, re := range phonePatterns {
		m := re.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		var digits string
		if len(m) > 2 {
			digits = digitsOnly(m[1] + m[2])
		} else {
			digits = digitsOnly(m[1])
		}
		if len(digits) == 11 && digits[0] == '0' {
			digits = digits[1:]
		}
		if len(digits) == 10 || len(digits) == 11 {
			phone := "+55" + digits
			return &phone
		}
	}
	return nil
}

var linkedInPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)linkedin\.com/in/([a-z0-9-]+)`),
	regexp.MustCompile(`(?i)linkedin\.com/company/([a-z0-9-]+)`),
	regexp.MustCompile(`(?i)linkedin[:\s]+([a-z0-9-]+)`),
}

// contactLinkedIn canonicalizes any recognized form to a profile URL.
func contactLinkedIn(text string) *string {
	for _, re := range linkedInPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			url := "https://linkedin.com/in/" + strings.ToLower(m[1])
			return &url
		}
	}
	return nil
}
