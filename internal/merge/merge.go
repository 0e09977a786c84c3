// Package merge reconciles lead records from different extraction
// sources. Primary (higher trust, e.g. AI-derived) wins per field;
// backup (e.g. local pattern extraction) fills the gaps. All functions
// are total: nil inputs are treated as empty records, inputs are never
// mutated, and outputs are freshly allocated.
package merge

import "github.com/stratevo/lead-engine/internal/lead"

// Merge combines two partial records field by field. Scalar fields
// take primary's value when set, else backup's, else stay null. Array
// fields union with primary's order first and exact-string dedup.
// Source falls back to the literal "merged" when neither input has one.
func Merge(primary, backup *lead.LeadB2B) *lead.LeadB2B {
	p := orEmpty(primary)
	b := orEmpty(backup)

	out := &lead.LeadB2B{
		CompanyName:      pickStr(p.CompanyName, b.CompanyName),
		CompanyLegalName: pickStr(p.CompanyLegalName, b.CompanyLegalName),
		CNPJ:             pickStr(p.CNPJ, b.CNPJ),
		CNAE:             pickStr(p.CNAE, b.CNAE),
		CompanySize:      pickStr(p.CompanySize, b.CompanySize),
		CapitalSocial:    pickFloat(p.CapitalSocial, b.CapitalSocial),
		CompanyWebsite:   pickStr(p.CompanyWebsite, b.CompanyWebsite),
		CompanyRegion:    pickStr(p.CompanyRegion, b.CompanyRegion),
		CompanySector:    pickStr(p.CompanySector, b.CompanySector),

		ContactName:     pickStr(p.ContactName, b.ContactName),
		ContactTitle:    pickStr(p.ContactTitle, b.ContactTitle),
		ContactEmail:    pickStr(p.ContactEmail, b.ContactEmail),
		ContactPhone:    pickStr(p.ContactPhone, b.ContactPhone),
		ContactLinkedIn: pickStr(p.ContactLinkedIn, b.ContactLinkedIn),

		TotvsProducts: unionStrings(p.TotvsProducts, b.TotvsProducts),
		OlvSolutions:  unionStrings(p.OlvSolutions, b.OlvSolutions),
		InterestArea:  pickStr(p.InterestArea, b.InterestArea),
		Urgency:       pickStr(p.Urgency, b.Urgency),
		Budget:        pickStr(p.Budget, b.Budget),
		Timeline:      pickStr(p.Timeline, b.Timeline),
	}

	switch {
	case p.ConversationSummary != "":
		out.ConversationSummary = p.ConversationSummary
	default:
		out.ConversationSummary = b.ConversationSummary
	}

	switch {
	case p.Source != "":
		out.Source = p.Source
	case b.Source != "":
		out.Source = b.Source
	default:
		out.Source = lead.SourceMerged
	}

	return out
}

// HasEssentialData reports whether the record carries the minimum
// persistable combination: a company identifier (cnpj or name) and a
// contact identifier (name, email or phone). Records failing this gate
// are fragments and must not be stored as complete leads.
func HasEssentialData(data *lead.LeadB2B) bool {
	return data.HasCompany() && data.HasContact()
}

// criticalFields are the scalar fields whose change makes a record
// worth re-saving.
var criticalFields = []func(*lead.LeadB2B) *string{
	func(l *lead.LeadB2B) *string { return l.CompanyName },
	func(l *lead.LeadB2B) *string { return l.CNPJ },
	func(l *lead.LeadB2B) *string { return l.ContactName },
	func(l *lead.LeadB2B) *string { return l.ContactEmail },
	func(l *lead.LeadB2B) *string { return l.ContactPhone },
}

// HasNewData reports whether current carries information previous
// lacks: any critical field present and different, or any product
// element previous does not have. Asymmetric on purpose: removals in
// current never count as news.
func HasNewData(current, previous *lead.LeadB2B) bool {
	if previous == nil {
		return true
	}
	cur := orEmpty(current)
	for _, get := range criticalFields {
		c := get(cur)
		if c == nil || *c == "" {
			continue
		}
		p := get(previous)
		if p == nil || *p != *c {
			return true
		}
	}
	return hasNewElement(cur.TotvsProducts, previous.TotvsProducts) ||
		hasNewElement(cur.OlvSolutions, previous.OlvSolutions)
}

// diffFields enumerates the scalar fields compared by Diff, keyed by
// their wire names. Array fields are excluded.
var diffFields = []struct {
	name string
	get  func(*lead.LeadB2B) any
}{
	{"companyName", func(l *lead.LeadB2B) any { return strOrNil(l.CompanyName) }},
	{"companyLegalName", func(l *lead.LeadB2B) any { return strOrNil(l.CompanyLegalName) }},
	{"cnpj", func(l *lead.LeadB2B) any { return strOrNil(l.CNPJ) }},
	{"cnae", func(l *lead.LeadB2B) any { return strOrNil(l.CNAE) }},
	{"companySize", func(l *lead.LeadB2B) any { return strOrNil(l.CompanySize) }},
	{"capitalSocial", func(l *lead.LeadB2B) any { return floatOrNil(l.CapitalSocial) }},
	{"companyWebsite", func(l *lead.LeadB2B) any { return strOrNil(l.CompanyWebsite) }},
	{"companyRegion", func(l *lead.LeadB2B) any { return strOrNil(l.CompanyRegion) }},
	{"companySector", func(l *lead.LeadB2B) any { return strOrNil(l.CompanySector) }},
	{"contactName", func(l *lead.LeadB2B) any { return strOrNil(l.ContactName) }},
	{"contactTitle", func(l *lead.LeadB2B) any { return strOrNil(l.ContactTitle) }},
	{"contactEmail", func(l *lead.LeadB2B) any { return strOrNil(l.ContactEmail) }},
	{"contactPhone", func(l *lead.LeadB2B) any { return strOrNil(l.ContactPhone) }},
	{"contactLinkedIn", func(l *lead.LeadB2B) any { return strOrNil(l.ContactLinkedIn) }},
	{"interestArea", func(l *lead.LeadB2B) any { return strOrNil(l.InterestArea) }},
	{"urgency", func(l *lead.LeadB2B) any { return strOrNil(l.Urgency) }},
	{"budget", func(l *lead.LeadB2B) any { return strOrNil(l.Budget) }},
	{"timeline", func(l *lead.LeadB2B) any { return strOrNil(l.Timeline) }},
}

// Diff returns only the scalar fields whose value in current differs
// from previous, keyed by wire name. Unchanged fields are omitted
// entirely; a field cleared in current appears with a nil value.
func Diff(current, previous *lead.LeadB2B) map[string]any {
	cur := orEmpty(current)
	prev := orEmpty(previous)

	changed := make(map[string]any)
	for _, f := range diffFields {
		c, p := f.get(cur), f.get(prev)
		if c != p {
			changed[f.name] = c
		}
	}
	return changed
}

var empty lead.LeadB2B

func orEmpty(l *lead.LeadB2B) *lead.LeadB2B {
	if l == nil {
		return &empty
	}
	return l
}

func pickStr(primary, backup *string) *string {
	if primary != nil && *primary != "" {
		v := *primary
		return &v
	}
	if backup != nil && *backup != "" {
		v := *backup
		return &v
	}
	return nil
}

func pickFloat(primary, backup *float64) *float64 {
	if primary != nil {
		v := *primary
		return &v
	}
	if backup != nil {
		v := *backup
		return &v
	}
	return nil
}

// unionStrings appends backup's unseen elements after primary's, with
// exact case-sensitive dedup. Always returns a fresh slice.
func unionStrings(primary, backup []string) []string {
	out := make([]string, 0, len(primary)+len(backup))
	seen := make(map[string]bool, len(primary)+len(backup))
	for _, s := range primary {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range backup {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func hasNewElement(current, previous []string) bool {
	if len(current) == 0 {
		return false
	}
	prev := make(map[string]bool, len(previous))
	for _, s := range previous {
		prev[s] = true
	}
	for _, s := range current {
		if !prev[s] {
			return true
		}
	}
	return false
}

// strOrNil converts a string pointer to a comparable any: empty and
// nil collapse to nil so "" versus absent never reads as a change.
func strOrNil(p *string) any {
	if p == nil || *p == "" {
		return nil
	}
	return *p
}

func floatOrNil(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
