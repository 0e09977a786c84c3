package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Company-field patterns. Each field has its own ordered list; the
// first pattern whose match passes the field's sanity gate wins.

var companyNamePatterns = []*regexp.Regexp{
	// "a empresa é X", "minha empresa chama-se X"
	regexp.MustCompile(`(?i)(?:empresa|minha\s+empresa|a\s+empresa)\s+(?:é|chama-se|se\s+chama)\s+([A-ZÁÉÍÓÚÂÊÔÇ][A-Za-záéíóúâêôçãõ\s&]+(?:LTDA|ME|EPP|SA|EIRELI)?)`),
	// "trabalho na X", "sou da empresa X"
	regexp.MustCompile(`(?i)(?:trabalho\s+(?:na|no)|sou\s+da\s+empresa|atua\s+na)\s+([A-ZÁÉÍÓÚÂÊÔÇ][A-Za-záéíóúâêôçãõ\s&]+(?:LTDA|ME|EPP|SA|EIRELI)?)`),
	// trade name followed by a legal-entity suffix
	regexp.MustCompile(`(?i)([A-ZÁÉÍÓÚÂÊÔÇ][A-Za-záéíóúâêôçãõ\s&]{3,50})\s+(?:LTDA|ME|EPP|SA|EIRELI)`),
}

func companyName(text string) *string {
	for _, re := range companyNamePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if n := len([]rune(name)); n >= 3 && n <= 100 {
			return &name
		}
	}
	return nil
}

var companyLegalNamePattern = regexp.MustCompile(`(?i)razão\s+social[:\s]+([A-ZÁÉÍÓÚÂÊÔÇ][A-Za-záéíóúâêôçãõ\s&]+(?:LTDA|ME|EPP|SA|EIRELI)?)`)

func companyLegalName(text string) *string {
	m := companyLegalNamePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	name := strings.TrimSpace(m[1])
	return &name
}

var cnpjPatterns = []*regexp.Regexp{
	// canonical NN.NNN.NNN/NNNN-NN
	regexp.MustCompile(`\b(\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2})\b`),
	// bare 14-digit run
	regexp.MustCompile(`\b(\d{14})\b`),
	// labeled, loosely punctuated
	regexp.MustCompile(`(?i)cnpj[:\s]+(\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2})`),
}

func cnpj(text string) *string {
	for _, re := range cnpjPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		digits := digitsOnly(m[1])
		if len(digits) != 14 || allSameDigit(digits) {
			continue
		}
		formatted := fmt.Sprintf("%s.%s.%s/%s-%s",
			digits[0:2], digits[2:5], digits[5:8], digits[8:12], digits[12:14])
		return &formatted
	}
	return nil
}

// allSameDigit rejects structurally invalid registry numbers such as
// "11111111111111". No check-digit verification beyond this.
func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return len(digits) > 0
}

var cnaePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)código\s+cnae[:\s]+(\d{4,5}[-.]?\d{1,2}/?\d{2})`),
	regexp.MustCompile(`(?i)cnae[:\s]+(\d{4,5}[-.]?\d{1,2}/?\d{2})`),
	regexp.MustCompile(`\b(\d{4,5}[-.]\d{1,2}/\d{2})\b`),
}

func cnae(text string) *string {
	for _, re := range cnaePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			code := strings.TrimSpace(m[1])
			return &code
		}
	}
	return nil
}

func companySize(lowered string) *string {
	if v, ok := firstKeyword(lowered, companySizes); ok {
		return &v
	}
	return nil
}

var capitalSocialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)capital\s+social[:\s]+(?:r\$|rs\.?)\s*([\d.,]+)`),
	regexp.MustCompile(`(?i)capital[:\s]+(?:r\$|rs\.?)\s*([\d.,]+)`),
}

// capitalSocial parses locale-formatted currency ("1.000.000,00" →
// 1000000.00). Only positive parses are accepted.
func capitalSocial(text string) *float64 {
	for _, re := range capitalSocialPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.ReplaceAll(m[1], ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
		v, err := strconv.ParseFloat(strings.Trim(raw, "."), 64)
		if err == nil && v > 0 {
			return &v
		}
	}
	return nil
}

var websitePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?([a-z0-9-]+(?:\.[a-z0-9-]+)*\.(?:com\.br|com|net|org|gov|br))`),
	regexp.MustCompile(`(?i)site[:\s]+([a-z0-9-]+(?:\.[a-z0-9-]+)*\.(?:com\.br|com|net|org|gov|br))`),
}

// website extracts a domain-like token with a known TLD and reformats
// it to https://www.<domain>.
func website(text string) *string {
	for _, re := range websitePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		domain := strings.TrimSpace(m[1])
		if len(domain) <= 3 || len(domain) >= 100 {
			continue
		}
		if !strings.HasPrefix(domain, "www.") {
			domain = "www." + domain
		}
		url := "https://" + domain
		return &url
	}
	return nil
}

var regionFallbackPattern = regexp.MustCompile(`(?i)(?:em|de|na|no)\s+([A-ZÁÉÍÓÚÂÊÔÇ][a-záéíóúâêôçãõ]+(?:\s+[A-ZÁÉÍÓÚÂÊÔÇ][a-záéíóúâêôçãõ]+)*)`)

// region matches a Brazilian state name first, falling back to a
// generic "em/de/na/no <place>" phrase.
func region(text, lowered string) *string {
	for _, estado := range brazilianStates {
		if strings.Contains(lowered, estado) {
			e := estado
			return &e
		}
	}
	if m := regionFallbackPattern.FindStringSubmatch(text); m != nil {
		place := strings.TrimSpace(m[1])
		return &place
	}
	return nil
}

func sector(lowered string) *string {
	if v, ok := firstKeyword(lowered, sectors); ok {
		return &v
	}
	return nil
}
