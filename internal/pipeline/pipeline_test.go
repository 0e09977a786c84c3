package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratevo/lead-engine/internal/lead"
	"github.com/stratevo/lead-engine/internal/store"
)

const sampleText = "Olá, meu nome é João Silva e trabalho na Acme Sistemas LTDA. " +
	"Nosso CNPJ é 12.345.678/0001-90. Meu email é joao@acme.com.br."

// fakeAI returns a fixed record or error.
type fakeAI struct {
	result *lead.LeadB2B
	err    error
	calls  int
}

func (f *fakeAI) ExtractLead(_ context.Context, _ string, _ *lead.TenantContext) (*lead.LeadB2B, error) {
	f.calls++
	return f.result, f.err
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "pipeline.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProcessLocalOnly(t *testing.T) {
	p := New()

	result, err := p.Process(context.Background(), "stratevo", sampleText)
	require.NoError(t, err)
	assert.True(t, result.Essential)
	require.NotNil(t, result.Lead.CNPJ)
	assert.Equal(t, "12.345.678/0001-90", *result.Lead.CNPJ)
	assert.Equal(t, lead.SourceLocal, result.Lead.Source)
	assert.False(t, result.Created, "no store means nothing persisted")
}

func TestProcessAIWins(t *testing.T) {
	ai := &fakeAI{result: &lead.LeadB2B{
		CompanyName:   lead.String("Acme Sistemas S.A."),
		ContactName:   lead.String("João Silva"),
		TotvsProducts: []string{},
		OlvSolutions:  []string{},
		Source:        lead.SourceAI,
	}}
	p := New(WithAI(ai))

	result, err := p.Process(context.Background(), "stratevo", sampleText)
	require.NoError(t, err)
	assert.Equal(t, 1, ai.calls)
	require.NotNil(t, result.Lead.CompanyName)
	assert.Equal(t, "Acme Sistemas S.A.", *result.Lead.CompanyName)
	// Local extraction still fills what the AI missed.
	require.NotNil(t, result.Lead.CNPJ)
	assert.Equal(t, "12.345.678/0001-90", *result.Lead.CNPJ)
	assert.Equal(t, lead.SourceAI, result.Lead.Source)
}

func TestProcessAIFailureDegradesToLocal(t *testing.T) {
	ai := &fakeAI{err: eris.New("api down")}
	p := New(WithAI(ai))

	result, err := p.Process(context.Background(), "stratevo", sampleText)
	require.NoError(t, err)
	assert.Equal(t, 1, ai.calls)
	assert.True(t, result.Essential)
	assert.Equal(t, lead.SourceLocal, result.Lead.Source)
}

func TestProcessPersistsNewLead(t *testing.T) {
	s := newTestStore(t)
	p := New(WithStore(s))
	ctx := context.Background()

	result, err := p.Process(ctx, "stratevo", sampleText)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.False(t, result.Updated)
	require.NotEmpty(t, result.LeadID)

	stored, err := s.GetLead(ctx, result.LeadID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "stratevo", stored.TenantID)

	orphans, err := s.ListOrphanConversations(ctx, "stratevo", 10)
	require.NoError(t, err)
	assert.Empty(t, orphans, "conversation should be linked to the lead")
}

func TestProcessNonEssentialKeepsOrphan(t *testing.T) {
	s := newTestStore(t)
	p := New(WithStore(s))
	ctx := context.Background()

	result, err := p.Process(ctx, "stratevo", "bom dia, tudo bem?")
	require.NoError(t, err)
	assert.False(t, result.Essential)
	assert.False(t, result.Created)
	assert.Empty(t, result.LeadID)

	orphans, err := s.ListOrphanConversations(ctx, "stratevo", 10)
	require.NoError(t, err)
	assert.Len(t, orphans, 1)

	leads, err := s.ListLeads(ctx, store.LeadFilter{TenantID: "stratevo"})
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestProcessUpdatesExistingLead(t *testing.T) {
	s := newTestStore(t)
	p := New(WithStore(s))
	ctx := context.Background()

	first, err := p.Process(ctx, "stratevo", sampleText)
	require.NoError(t, err)
	require.True(t, first.Created)

	// Same identity, new phone.
	second, err := p.Process(ctx, "stratevo",
		sampleText+" Meu telefone é (11) 98888-7777.")
	require.NoError(t, err)
	assert.Equal(t, first.LeadID, second.LeadID)
	assert.False(t, second.Created)
	assert.True(t, second.Updated)
	assert.Equal(t, "+5511988887777", second.Changes["contactPhone"])

	stored, err := s.GetLead(ctx, first.LeadID)
	require.NoError(t, err)
	require.NotNil(t, stored.Data.ContactPhone)
	assert.Equal(t, "+5511988887777", *stored.Data.ContactPhone)
}

func TestProcessSkipsUpdateWithoutNewData(t *testing.T) {
	s := newTestStore(t)
	p := New(WithStore(s))
	ctx := context.Background()

	first, err := p.Process(ctx, "stratevo", sampleText)
	require.NoError(t, err)

	second, err := p.Process(ctx, "stratevo", sampleText)
	require.NoError(t, err)
	assert.Equal(t, first.LeadID, second.LeadID)
	assert.False(t, second.Created)
	assert.False(t, second.Updated)

	leads, err := s.ListLeads(ctx, store.LeadFilter{TenantID: "stratevo"})
	require.NoError(t, err)
	assert.Len(t, leads, 1, "duplicate conversations must not duplicate leads")
}

func TestProcessBatch(t *testing.T) {
	s := newTestStore(t)
	p := New(WithStore(s), WithConcurrency(3))
	ctx := context.Background()

	texts := []string{
		sampleText,
		"bom dia",
		"Sou a Maria Santos da Beta Tech LTDA, CNPJ 98.765.432/0001-10, maria@betatech.com.br",
	}
	results, err := p.ProcessBatch(ctx, "stratevo", texts)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].Essential)
	assert.False(t, results[1].Essential)
	assert.True(t, results[2].Essential)
}

func TestRecoverOrphans(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Ingest with an empty extraction result: everything orphans.
	_, err := s.CreateConversation(ctx, "stratevo", sampleText, nil)
	require.NoError(t, err)
	_, err = s.CreateConversation(ctx, "stratevo", "oi, tudo bem?", nil)
	require.NoError(t, err)

	p := New(WithStore(s))
	report, err := p.RecoverOrphans(ctx, "stratevo", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Recovered)
	assert.Equal(t, 1, report.Skipped)

	orphans, err := s.ListOrphanConversations(ctx, "stratevo", 10)
	require.NoError(t, err)
	assert.Len(t, orphans, 1)

	leads, err := s.ListLeads(ctx, store.LeadFilter{TenantID: "stratevo"})
	require.NoError(t, err)
	assert.Len(t, leads, 1)
}

func TestImportConversations(t *testing.T) {
	s := newTestStore(t)
	p := New(WithStore(s))
	ctx := context.Background()

	n, err := p.ImportConversations(ctx, "stratevo", []string{sampleText, "oi, tudo bem?"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Imported rows stay unlinked until recover processes them.
	orphans, err := s.ListOrphanConversations(ctx, "stratevo", 10)
	require.NoError(t, err)
	assert.Len(t, orphans, 2)

	leads, err := s.ListLeads(ctx, store.LeadFilter{TenantID: "stratevo"})
	require.NoError(t, err)
	assert.Empty(t, leads)
}

// bulkStore wraps a Store with a counting bulk ingest path.
type bulkStore struct {
	store.Store
	bulkCalls int
}

func (b *bulkStore) BulkImportConversations(_ context.Context, _ string, texts []string) (int64, error) {
	b.bulkCalls++
	return int64(len(texts)), nil
}

func TestImportConversationsPrefersBulkPath(t *testing.T) {
	s := &bulkStore{Store: newTestStore(t)}
	p := New(WithStore(s))

	n, err := p.ImportConversations(context.Background(), "stratevo",
		[]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, 1, s.bulkCalls)
}

func TestImportConversationsRequiresStore(t *testing.T) {
	p := New()
	_, err := p.ImportConversations(context.Background(), "stratevo", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a store")
}

func TestRecoverOrphansRequiresStore(t *testing.T) {
	p := New()
	_, err := p.RecoverOrphans(context.Background(), "stratevo", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a store")
}
