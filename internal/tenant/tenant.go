// Package tenant loads per-tenant extraction vocabularies from YAML
// files. Each tenant file supplies the solution, vendor and interest
// keyword lists that steer text extraction for that CRM account.
package tenant

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/stratevo/lead-engine/internal/lead"
)

// Registry holds loaded tenant contexts keyed by tenant id.
type Registry struct {
	tenants map[string]*lead.TenantContext
}

// LoadDir reads every *.yaml / *.yml file in dir as a tenant context.
// A missing directory yields an empty registry, not an error.
func LoadDir(dir string) (*Registry, error) {
	r := &Registry{tenants: make(map[string]*lead.TenantContext)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("tenant: directory not found, starting empty", zap.String("dir", dir))
			return r, nil
		}
		return nil, eris.Wrap(err, "tenant: read dir")
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		tctx, err := loadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := r.tenants[tctx.TenantID]; dup {
			return nil, eris.Errorf("tenant: duplicate tenant id %q in %s", tctx.TenantID, e.Name())
		}
		r.tenants[tctx.TenantID] = tctx
	}

	zap.L().Info("tenant: registry loaded", zap.String("dir", dir), zap.Int("tenants", len(r.tenants)))
	return r, nil
}

func loadFile(path string) (*lead.TenantContext, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "tenant: read file")
	}
	var tctx lead.TenantContext
	if err := yaml.Unmarshal(raw, &tctx); err != nil {
		return nil, eris.Wrapf(err, "tenant: parse %s", filepath.Base(path))
	}
	if tctx.TenantID == "" {
		return nil, eris.Errorf("tenant: %s missing tenant_id", filepath.Base(path))
	}
	return &tctx, nil
}

// Get returns the context for a tenant id, or nil when unknown.
// Extraction treats a nil context as "no tenant vocabulary".
func (r *Registry) Get(id string) *lead.TenantContext {
	return r.tenants[id]
}

// IDs returns the known tenant ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.tenants))
	for id := range r.tenants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of loaded tenants.
func (r *Registry) Len() int {
	return len(r.tenants)
}
