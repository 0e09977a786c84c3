package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/stratevo/lead-engine/internal/ai"
	"github.com/stratevo/lead-engine/internal/pipeline"
	"github.com/stratevo/lead-engine/internal/store"
	"github.com/stratevo/lead-engine/internal/tenant"
	anthropicpkg "github.com/stratevo/lead-engine/pkg/anthropic"
)

// pipelineEnv holds the initialized store, tenant registry, and
// pipeline needed by the extract/batch/serve/recover commands.
type pipelineEnv struct {
	Store    store.Store
	Tenants  *tenant.Registry
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initStore opens the configured database backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initPipeline sets up the store, tenant registry, and optional AI
// extractor, then builds the Pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	tenants, err := tenant.LoadDir(cfg.Tenants.Dir)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithStore(st),
		pipeline.WithTenants(tenants),
		pipeline.WithConcurrency(cfg.Pipeline.MaxConcurrentLeads),
	}
	if cfg.Pipeline.AIEnabled {
		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		opts = append(opts, pipeline.WithAI(ai.New(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, cfg.Anthropic.RequestsPerMin)))
		zap.L().Info("ai extraction enabled", zap.String("model", cfg.Anthropic.Model))
	}

	return &pipelineEnv{
		Store:    st,
		Tenants:  tenants,
		Pipeline: pipeline.New(opts...),
	}, nil
}
