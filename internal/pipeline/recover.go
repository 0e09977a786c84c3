package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/stratevo/lead-engine/internal/merge"
)

// RecoverReport summarizes an orphan-recovery run.
type RecoverReport struct {
	Scanned   int `json:"scanned"`
	Recovered int `json:"recovered"`
	Skipped   int `json:"skipped"`
}

// RecoverOrphans re-processes conversations that never produced a
// lead. Useful after vocabulary updates or when AI extraction was down
// at ingest time. Conversations that still fail the essential-data
// gate stay orphaned.
func (p *Pipeline) RecoverOrphans(ctx context.Context, tenantID string, limit int) (*RecoverReport, error) {
	if p.store == nil {
		return nil, eris.New("pipeline: recovery requires a store")
	}

	orphans, err := p.store.ListOrphanConversations(ctx, tenantID, limit)
	if err != nil {
		return nil, err
	}

	report := &RecoverReport{Scanned: len(orphans)}
	for _, conv := range orphans {
		result, err := p.reprocess(ctx, tenantID, conv.ID, conv.Text)
		if err != nil {
			return nil, err
		}
		if result {
			report.Recovered++
		} else {
			report.Skipped++
		}
	}

	zap.L().Info("pipeline: orphan recovery complete",
		zap.String("tenant", tenantID),
		zap.Int("scanned", report.Scanned),
		zap.Int("recovered", report.Recovered),
	)
	return report, nil
}

// reprocess runs extraction for an existing conversation and links it
// when the result passes the gate. No new conversation row is written.
func (p *Pipeline) reprocess(ctx context.Context, tenantID, conversationID, text string) (bool, error) {
	tctx := p.tenantContext(tenantID)
	local := extractLocal(text, tctx)
	primary := p.tryAI(ctx, tenantID, text, tctx)

	merged := merge.Merge(primary, local)
	if !merge.HasEssentialData(merged) {
		return false, nil
	}

	existing, err := p.store.FindLeadByIdentity(ctx, tenantID, merged)
	if err != nil {
		return false, err
	}
	if existing == nil {
		created, err := p.store.CreateLead(ctx, tenantID, merged)
		if err != nil {
			return false, err
		}
		return true, p.store.LinkConversation(ctx, conversationID, created.ID)
	}

	if merge.HasNewData(merged, existing.Data) {
		combined := merge.Merge(merged, existing.Data)
		if err := p.store.UpdateLead(ctx, existing.ID, combined); err != nil {
			return false, err
		}
	}
	return true, p.store.LinkConversation(ctx, conversationID, existing.ID)
}
