package extract

import (
	"regexp"
	"strings"

	"github.com/stratevo/lead-engine/internal/lead"
)

// solutionsMentioned returns tenant solution keywords present in the
// text, in vocabulary order. No context means no matches; there is no
// hardcoded default portfolio.
func solutionsMentioned(lowered string, tctx *lead.TenantContext) []string {
	if tctx == nil {
		return nil
	}
	var found []string
	for _, kw := range tctx.SolutionKeywords {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	return found
}

// vendorsMentioned returns tenant vendor keywords present in the text.
func vendorsMentioned(lowered string, tctx *lead.TenantContext) []string {
	if tctx == nil {
		return nil
	}
	var found []string
	for _, kw := range tctx.VendorKeywords {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	return found
}

// Brand-adjacent product mentions: the brand name optionally followed
// by one product word ("TOTVS Protheus", "OLV Core").
var (
	totvsMentionPattern = regexp.MustCompile(`(?i)\btotvs(?:\s+[a-z0-9]+)?`)
	olvMentionPattern   = regexp.MustCompile(`(?i)\bolv(?:\s+[a-z0-9]+)?`)
)

// brandProducts gates product attribution on explicit brand presence:
// the brand must be in the tenant's vendor portfolio or literally in
// the text. Generic "ERP/sistema de gestão" language never attributes
// a vendor. When the gate opens, a tenant solution keyword is
// attributed only if its own name carries the brand or the brand is
// literally in the text; literal brand mentions from the text are
// unioned in. A brand that is merely in the portfolio never claims
// another vendor's solutions.
func brandProducts(text, lowered, brand string, mention *regexp.Regexp, solutions []string, tctx *lead.TenantContext) []string {
	inPortfolio := false
	if tctx != nil {
		for _, v := range tctx.VendorKeywords {
			if strings.Contains(strings.ToLower(v), brand) {
				inPortfolio = true
				break
			}
		}
	}
	mentioned := strings.Contains(lowered, brand)
	if !inPortfolio && !mentioned {
		return []string{}
	}

	products := []string{}
	seen := map[string]bool{}
	for _, s := range solutions {
		if strings.Contains(strings.ToLower(s), brand) || mentioned {
			if !seen[s] {
				seen[s] = true
				products = append(products, s)
			}
		}
	}
	if mentioned {
		for _, m := range mention.FindAllString(text, -1) {
			m = strings.TrimSpace(m)
			if m != "" && !seen[m] {
				seen[m] = true
				products = append(products, m)
			}
		}
	}
	return products
}

// interestArea checks tenant interest keywords first (in order), then
// the generic fallback vocabulary.
func interestArea(lowered string, tctx *lead.TenantContext) *string {
	if tctx != nil {
		for _, kw := range tctx.InterestKeywords {
			if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
				k := kw
				return &k
			}
		}
	}
	if v, ok := firstKeyword(lowered, interestAreas); ok {
		return &v
	}
	return nil
}

func urgency(lowered string) *string {
	if v, ok := firstKeyword(lowered, urgencyLevels); ok {
		return &v
	}
	return nil
}

var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)orçamento[:\s]+(?:de\s+|até\s+)?(?:r\$|rs\.?)\s*([\d.,]+)`),
	regexp.MustCompile(`(?i)investimento[:\s]+(?:de\s+|até\s+)?(?:r\$|rs\.?)\s*([\d.,]+)`),
	// longest alternative first, matching is leftmost-first
	regexp.MustCompile(`(?i)(?:r\$|rs\.?)\s*([\d.,]+\s+(?:milhões|milhão|mil))`),
}

// budget returns the raw matched amount; callers parse if they care.
func budget(text string) *string {
	for _, re := range budgetPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			v := strings.TrimSpace(m[1])
			return &v
		}
	}
	return nil
}

var timelinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)prazo[:\s]+(?:de|para)\s+(\d+\s+(?:dias?|meses?|semanas?))`),
	regexp.MustCompile(`(?i)(?:em|até)\s+(\d+\s+(?:dias?|meses?|semanas?))`),
	regexp.MustCompile(`(?i)((?:janeiro|fevereiro|março|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)\s+(?:de\s+)?\d{4})`),
}

// timeline returns the raw matched duration or month-year phrase.
func timeline(text string) *string {
	for _, re := range timelinePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			v := strings.TrimSpace(m[1])
			return &v
		}
	}
	return nil
}
