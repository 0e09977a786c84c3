// Package lead defines the B2B lead record produced by extraction and
// consumed by the merge engine and stores.
package lead

// Source tags recorded on a LeadB2B to mark provenance.
const (
	SourceLocal  = "local"
	SourceAI     = "ai"
	SourceMerged = "merged"
)

// Company size classifications (Brazilian porte).
const (
	SizeME     = "ME"
	SizeEPP    = "EPP"
	SizeSmall  = "Pequena"
	SizeMedium = "Média"
	SizeLarge  = "Grande"
)

// Urgency levels.
const (
	UrgencyUrgent = "Urgente"
	UrgencyHigh   = "Alta"
	UrgencyMedium = "Média"
	UrgencyLow    = "Baixa"
)

// TenantContext carries tenant-specific vocabularies used to
// parameterize extraction. It is passed by value into the extractor;
// a nil context disables all tenant-specific matching.
type TenantContext struct {
	TenantID   string `json:"tenantId,omitempty" yaml:"tenant_id"`
	TenantName string `json:"tenantName,omitempty" yaml:"tenant_name"`

	// SolutionKeywords lists products/solutions the tenant offers.
	SolutionKeywords []string `json:"solutionKeywords,omitempty" yaml:"solution_keywords"`
	// VendorKeywords lists brands/vendors relevant to the tenant.
	VendorKeywords []string `json:"vendorKeywords,omitempty" yaml:"vendor_keywords"`
	// InterestKeywords lists interest areas checked before the generic
	// fallback vocabulary.
	InterestKeywords []string `json:"interestKeywords,omitempty" yaml:"interest_keywords"`
}

// LeadB2B is a snapshot of a company plus decision-maker contact
// extracted from free text. Every scalar field is optional; nil means
// the field was not found. Array fields default to empty, never nil,
// in extractor output.
type LeadB2B struct {
	// Company identity
	CompanyName      *string  `json:"companyName"`
	CompanyLegalName *string  `json:"companyLegalName"`
	CNPJ             *string  `json:"cnpj"`
	CNAE             *string  `json:"cnae"`
	CompanySize      *string  `json:"companySize"`
	CapitalSocial    *float64 `json:"capitalSocial"`
	CompanyWebsite   *string  `json:"companyWebsite"`
	CompanyRegion    *string  `json:"companyRegion"`
	CompanySector    *string  `json:"companySector"`

	// Contact (decision maker)
	ContactName     *string `json:"contactName"`
	ContactTitle    *string `json:"contactTitle"`
	ContactEmail    *string `json:"contactEmail"`
	ContactPhone    *string `json:"contactPhone"`
	ContactLinkedIn *string `json:"contactLinkedIn"`

	// Interest signals
	TotvsProducts []string `json:"totvsProducts"`
	OlvSolutions  []string `json:"olvSolutions"`
	InterestArea  *string  `json:"interestArea"`
	Urgency       *string  `json:"urgency"`
	Budget        *string  `json:"budget"`
	Timeline      *string  `json:"timeline"`

	// Metadata
	ConversationSummary string `json:"conversationSummary,omitempty"`
	Source              string `json:"source,omitempty"`
}

// String returns a pointer to s. Convenience for building literals.
func String(s string) *string { return &s }

// Float64 returns a pointer to f.
func Float64(f float64) *float64 { return &f }

// Clone returns a deep copy. Slices are copied so mutating the clone
// never touches the original.
func (l *LeadB2B) Clone() *LeadB2B {
	if l == nil {
		return nil
	}
	out := *l
	out.CompanyName = cloneStr(l.CompanyName)
	out.CompanyLegalName = cloneStr(l.CompanyLegalName)
	out.CNPJ = cloneStr(l.CNPJ)
	out.CNAE = cloneStr(l.CNAE)
	out.CompanySize = cloneStr(l.CompanySize)
	out.CapitalSocial = cloneFloat(l.CapitalSocial)
	out.CompanyWebsite = cloneStr(l.CompanyWebsite)
	out.CompanyRegion = cloneStr(l.CompanyRegion)
	out.CompanySector = cloneStr(l.CompanySector)
	out.ContactName = cloneStr(l.ContactName)
	out.ContactTitle = cloneStr(l.ContactTitle)
	out.ContactEmail = cloneStr(l.ContactEmail)
	out.ContactPhone = cloneStr(l.ContactPhone)
	out.ContactLinkedIn = cloneStr(l.ContactLinkedIn)
	out.InterestArea = cloneStr(l.InterestArea)
	out.Urgency = cloneStr(l.Urgency)
	out.Budget = cloneStr(l.Budget)
	out.Timeline = cloneStr(l.Timeline)
	if l.TotvsProducts != nil {
		out.TotvsProducts = append([]string(nil), l.TotvsProducts...)
	}
	if l.OlvSolutions != nil {
		out.OlvSolutions = append([]string(nil), l.OlvSolutions...)
	}
	return &out
}

// HasCompany reports whether any company identifier is present.
func (l *LeadB2B) HasCompany() bool {
	return l != nil && (isSet(l.CompanyName) || isSet(l.CNPJ))
}

// HasContact reports whether any contact identifier is present.
func (l *LeadB2B) HasContact() bool {
	return l != nil && (isSet(l.ContactName) || isSet(l.ContactEmail) || isSet(l.ContactPhone))
}

func isSet(p *string) bool { return p != nil && *p != "" }

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
