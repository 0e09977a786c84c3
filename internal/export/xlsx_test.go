package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/stratevo/lead-engine/internal/lead"
	"github.com/stratevo/lead-engine/internal/store"
)

func TestWriteLeads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	leads := []store.StoredLead{
		{
			ID:       "lead-1",
			TenantID: "stratevo",
			Data: &lead.LeadB2B{
				CompanyName:   lead.String("Acme Sistemas"),
				CNPJ:          lead.String("12.345.678/0001-90"),
				CapitalSocial: lead.Float64(1000000),
				ContactName:   lead.String("João Silva"),
				Source:        lead.SourceMerged,
			},
			CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, WriteLeads(path, leads))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	rows := f.Sheets[0].Rows
	require.Len(t, rows, 2)

	assert.Equal(t, "id", rows[0].Cells[0].String())
	assert.Equal(t, "lead-1", rows[1].Cells[0].String())
	assert.Equal(t, "Acme Sistemas", rows[1].Cells[2].String())
	assert.Equal(t, "12.345.678/0001-90", rows[1].Cells[3].String())
	assert.Equal(t, "1000000.00", rows[1].Cells[5].String())
	assert.Equal(t, "merged", rows[1].Cells[14].String())
}

func TestReadConversations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convs.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("conversas")
	require.NoError(t, err)
	sheet.AddRow().AddCell().SetString("texto")
	sheet.AddRow().AddCell().SetString("Olá, sou o João da Acme")
	sheet.AddRow() // empty row is skipped
	sheet.AddRow().AddCell().SetString("Sou a Maria da Beta Tech")
	require.NoError(t, f.Save(path))

	texts, err := ReadConversations(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Olá, sou o João da Acme", "Sou a Maria da Beta Tech"}, texts)
}

func TestReadConversationsMissingFile(t *testing.T) {
	_, err := ReadConversations(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open file")
}
