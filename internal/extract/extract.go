// Package extract turns Portuguese free text into a best-effort
// LeadB2B record using ordered pattern dispatch. Extraction is pure:
// identical input always yields identical output, no I/O beyond a
// structured diagnostic log, and no mutation of the tenant context.
package extract

import (
	"go.uber.org/zap"

	"github.com/stratevo/lead-engine/internal/lead"
)

// summaryLimit caps ConversationSummary length (runes).
const summaryLimit = 500

// Extract produces a LeadB2B from free text. tctx may be nil; all
// tenant-specific fields then resolve to empty. Never panics or errs;
// worst case every field is null/empty.
func Extract(text string, tctx *lead.TenantContext) lead.LeadB2B {
	original, lowered := normalizeText(text)

	solutions := solutionsMentioned(lowered, tctx)
	vendors := vendorsMentioned(lowered, tctx)

	result := lead.LeadB2B{
		CompanyName:      companyName(original),
		CompanyLegalName: companyLegalName(original),
		CNPJ:             cnpj(original),
		CNAE:             cnae(original),
		CompanySize:      companySize(lowered),
		CapitalSocial:    capitalSocial(original),
		CompanyWebsite:   website(original),
		CompanyRegion:    region(original, lowered),
		CompanySector:    sector(lowered),

		ContactName:     contactName(original),
		ContactTitle:    contactTitle(original, lowered),
		ContactEmail:    contactEmail(original),
		ContactPhone:    contactPhone(original),
		ContactLinkedIn: contactLinkedIn(original),

		TotvsProducts: brandProducts(original, lowered, "totvs", totvsMentionPattern, solutions, tctx),
		OlvSolutions:  brandProducts(original, lowered, "olv", olvMentionPattern, solutions, tctx),
		InterestArea:  interestArea(lowered, tctx),
		Urgency:       urgency(lowered),
		Budget:        budget(original),
		Timeline:      timeline(original),

		ConversationSummary: summarize(original),
		Source:              lead.SourceLocal,
	}

	zap.L().Debug("extract: local extraction complete",
		zap.Bool("has_company", result.HasCompany()),
		zap.Bool("has_contact", result.HasContact()),
		zap.Int("products_found", len(result.TotvsProducts)+len(result.OlvSolutions)),
		zap.Int("solutions_mentioned", len(solutions)),
		zap.Int("vendors_mentioned", len(vendors)),
	)

	return result
}

// summarize truncates to summaryLimit runes with an ellipsis marker.
func summarize(text string) string {
	r := []rune(text)
	if len(r) <= summaryLimit {
		return text
	}
	return string(r[:summaryLimit]) + "..."
}

// CompanyData returns only the company-identity fields.
func CompanyData(text string) *lead.LeadB2B {
	data := Extract(text, nil)
	return &lead.LeadB2B{
		CompanyName:      data.CompanyName,
		CompanyLegalName: data.CompanyLegalName,
		CNPJ:             data.CNPJ,
		CNAE:             data.CNAE,
		CompanySize:      data.CompanySize,
		CapitalSocial:    data.CapitalSocial,
		CompanyWebsite:   data.CompanyWebsite,
		CompanyRegion:    data.CompanyRegion,
		CompanySector:    data.CompanySector,
	}
}

// ContactData returns only the contact-identity fields.
func ContactData(text string) *lead.LeadB2B {
	data := Extract(text, nil)
	return &lead.LeadB2B{
		ContactName:     data.ContactName,
		ContactTitle:    data.ContactTitle,
		ContactEmail:    data.ContactEmail,
		ContactPhone:    data.ContactPhone,
		ContactLinkedIn: data.ContactLinkedIn,
	}
}
