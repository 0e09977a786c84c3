// Package pipeline orchestrates lead processing: AI-first extraction
// with local pattern fallback, merge, the essential-data gate, and
// persistence with change detection.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/stratevo/lead-engine/internal/extract"
	"github.com/stratevo/lead-engine/internal/lead"
	"github.com/stratevo/lead-engine/internal/merge"
	"github.com/stratevo/lead-engine/internal/store"
	"github.com/stratevo/lead-engine/internal/tenant"
)

// AIExtractor is the primary extraction backend. Failures degrade to
// local-only extraction, never abort processing.
type AIExtractor interface {
	ExtractLead(ctx context.Context, text string, tctx *lead.TenantContext) (*lead.LeadB2B, error)
}

// Pipeline processes conversation texts into stored leads.
type Pipeline struct {
	store       store.Store      // nil disables persistence
	ai          AIExtractor      // nil disables the AI path
	tenants     *tenant.Registry // nil disables tenant vocabularies
	concurrency int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStore enables persistence.
func WithStore(s store.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithAI enables AI-first extraction.
func WithAI(ai AIExtractor) Option {
	return func(p *Pipeline) { p.ai = ai }
}

// WithTenants supplies per-tenant vocabularies.
func WithTenants(r *tenant.Registry) Option {
	return func(p *Pipeline) { p.tenants = r }
}

// WithConcurrency sets the batch worker limit.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// New builds a Pipeline. By default it runs local-only extraction with
// no persistence and five batch workers.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{concurrency: 5}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result reports what happened to one conversation text.
type Result struct {
	Lead      *lead.LeadB2B  `json:"lead"`
	Essential bool           `json:"essential"`
	LeadID    string         `json:"leadId,omitempty"`
	Created   bool           `json:"created"`
	Updated   bool           `json:"updated"`
	Changes   map[string]any `json:"changes,omitempty"`
}

// Process runs extraction and merge for one conversation text and, when
// a store is configured, persists the outcome. Records failing the
// essential-data gate are never saved as leads; their conversation is
// kept as an orphan for later recovery.
func (p *Pipeline) Process(ctx context.Context, tenantID, text string) (*Result, error) {
	tctx := p.tenantContext(tenantID)
	local := extractLocal(text, tctx)
	primary := p.tryAI(ctx, tenantID, text, tctx)

	merged := merge.Merge(primary, local)
	result := &Result{
		Lead:      merged,
		Essential: merge.HasEssentialData(merged),
	}

	if p.store == nil {
		return result, nil
	}
	if err := p.persist(ctx, tenantID, text, merged, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) persist(ctx context.Context, tenantID, text string, merged *lead.LeadB2B, result *Result) error {
	conv, err := p.store.CreateConversation(ctx, tenantID, text, nil)
	if err != nil {
		return err
	}

	if !result.Essential {
		zap.L().Info("pipeline: lead below essential-data gate, conversation kept as orphan",
			zap.String("tenant", tenantID),
			zap.String("conversation", conv.ID),
		)
		return nil
	}

	existing, err := p.store.FindLeadByIdentity(ctx, tenantID, merged)
	if err != nil {
		return err
	}

	if existing == nil {
		created, err := p.store.CreateLead(ctx, tenantID, merged)
		if err != nil {
			return err
		}
		result.LeadID = created.ID
		result.Created = true
		return p.store.LinkConversation(ctx, conv.ID, created.ID)
	}

	result.LeadID = existing.ID
	if !merge.HasNewData(merged, existing.Data) {
		zap.L().Debug("pipeline: no new data, skipping update",
			zap.String("lead", existing.ID),
		)
		return p.store.LinkConversation(ctx, conv.ID, existing.ID)
	}

	// New data wins over the stored record; stored fields fill gaps.
	combined := merge.Merge(merged, existing.Data)
	result.Changes = merge.Diff(combined, existing.Data)
	if err := p.store.UpdateLead(ctx, existing.ID, combined); err != nil {
		return err
	}
	result.Updated = true
	result.Lead = combined
	return p.store.LinkConversation(ctx, conv.ID, existing.ID)
}

func (p *Pipeline) tenantContext(tenantID string) *lead.TenantContext {
	if p.tenants == nil {
		return nil
	}
	return p.tenants.Get(tenantID)
}

func extractLocal(text string, tctx *lead.TenantContext) *lead.LeadB2B {
	local := extract.Extract(text, tctx)
	return &local
}

// tryAI runs the primary extractor when configured. Errors are logged
// and swallowed so processing degrades to the local result.
func (p *Pipeline) tryAI(ctx context.Context, tenantID, text string, tctx *lead.TenantContext) *lead.LeadB2B {
	if p.ai == nil {
		return nil
	}
	aiLead, err := p.ai.ExtractLead(ctx, text, tctx)
	if err != nil {
		zap.L().Warn("pipeline: ai extraction failed, using local only",
			zap.String("tenant", tenantID),
			zap.Error(err),
		)
		return nil
	}
	return aiLead
}
