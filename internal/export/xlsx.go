// Package export reads and writes lead spreadsheets. CRM operators
// exchange lead lists as XLSX, so both directions live here: exporting
// stored leads and importing raw conversation texts.
package export

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/stratevo/lead-engine/internal/store"
)

// leadHeaders is the export column order.
var leadHeaders = []string{
	"id", "tenant", "companyName", "cnpj", "companySize", "capitalSocial",
	"companyRegion", "companySector", "contactName", "contactTitle",
	"contactEmail", "contactPhone", "interestArea", "urgency", "source",
	"createdAt",
}

// WriteLeads writes stored leads to an XLSX file with one row per lead.
func WriteLeads(path string, leads []store.StoredLead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range leadHeaders {
		header.AddCell().SetString(h)
	}

	for _, l := range leads {
		row := sheet.AddRow()
		row.AddCell().SetString(l.ID)
		row.AddCell().SetString(l.TenantID)
		row.AddCell().SetString(deref(l.Data.CompanyName))
		row.AddCell().SetString(deref(l.Data.CNPJ))
		row.AddCell().SetString(deref(l.Data.CompanySize))
		row.AddCell().SetString(derefFloat(l.Data.CapitalSocial))
		row.AddCell().SetString(deref(l.Data.CompanyRegion))
		row.AddCell().SetString(deref(l.Data.CompanySector))
		row.AddCell().SetString(deref(l.Data.ContactName))
		row.AddCell().SetString(deref(l.Data.ContactTitle))
		row.AddCell().SetString(deref(l.Data.ContactEmail))
		row.AddCell().SetString(deref(l.Data.ContactPhone))
		row.AddCell().SetString(deref(l.Data.InterestArea))
		row.AddCell().SetString(deref(l.Data.Urgency))
		row.AddCell().SetString(l.Data.Source)
		row.AddCell().SetString(l.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return eris.Wrap(f.Save(path), "export: save file")
}

// ReadConversations reads conversation texts from the first column of
// the first sheet, skipping the header row. Empty cells are dropped.
func ReadConversations(path string) ([]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("export: file has no sheets")
	}

	var texts []string
	for i, row := range f.Sheets[0].Rows {
		if i == 0 || len(row.Cells) == 0 {
			continue
		}
		if text := row.Cells[0].String(); text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}
