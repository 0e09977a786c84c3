package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stratevo/lead-engine/internal/store"
)

// ProcessBatch runs Process over many texts with bounded concurrency.
// Results keep input order. A failed item stops the batch and returns
// the first error.
func (p *Pipeline) ProcessBatch(ctx context.Context, tenantID string, texts []string) ([]*Result, error) {
	results := make([]*Result, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, text := range texts {
		g.Go(func() error {
			r, err := p.Process(ctx, tenantID, text)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	essential := 0
	for _, r := range results {
		if r.Essential {
			essential++
		}
	}
	zap.L().Info("pipeline: batch complete",
		zap.String("tenant", tenantID),
		zap.Int("total", len(texts)),
		zap.Int("essential", essential),
	)
	return results, nil
}

// ImportConversations stores raw texts as unlinked conversations
// without running extraction, so RecoverOrphans can process them
// later. Backends implementing store.BulkImporter ingest in a single
// round trip; others insert row by row.
func (p *Pipeline) ImportConversations(ctx context.Context, tenantID string, texts []string) (int64, error) {
	if p.store == nil {
		return 0, eris.New("pipeline: import requires a store")
	}

	var imported int64
	if bulk, ok := p.store.(store.BulkImporter); ok {
		n, err := bulk.BulkImportConversations(ctx, tenantID, texts)
		if err != nil {
			return 0, err
		}
		imported = n
	} else {
		for _, text := range texts {
			if _, err := p.store.CreateConversation(ctx, tenantID, text, nil); err != nil {
				return imported, err
			}
			imported++
		}
	}

	zap.L().Info("pipeline: conversations imported",
		zap.String("tenant", tenantID),
		zap.Int64("imported", imported),
	)
	return imported, nil
}
