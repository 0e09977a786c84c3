// Package store persists extracted leads and their source
// conversations. Two backends implement the same interface: SQLite for
// local single-user work and Postgres for shared deployments.
package store

import (
	"context"
	"time"

	"github.com/stratevo/lead-engine/internal/lead"
)

// StoredLead wraps a lead record with persistence metadata.
type StoredLead struct {
	ID        string        `json:"id"`
	TenantID  string        `json:"tenantId"`
	Data      *lead.LeadB2B `json:"data"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Conversation is a raw inbound text, optionally linked to the lead
// extracted from it. Unlinked rows are orphans awaiting recovery.
type Conversation struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	LeadID    *string   `json:"leadId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	TenantID string `json:"tenantId,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the lead engine.
type Store interface {
	// Leads
	CreateLead(ctx context.Context, tenantID string, data *lead.LeadB2B) (*StoredLead, error)
	UpdateLead(ctx context.Context, leadID string, data *lead.LeadB2B) error
	GetLead(ctx context.Context, leadID string) (*StoredLead, error)
	FindLeadByIdentity(ctx context.Context, tenantID string, data *lead.LeadB2B) (*StoredLead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]StoredLead, error)

	// Conversations
	CreateConversation(ctx context.Context, tenantID, text string, leadID *string) (*Conversation, error)
	LinkConversation(ctx context.Context, conversationID, leadID string) error
	ListOrphanConversations(ctx context.Context, tenantID string, limit int) ([]Conversation, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// BulkImporter is implemented by stores with a fast path for ingesting
// many conversations at once. Callers fall back to row-by-row
// CreateConversation when the backend does not provide one.
type BulkImporter interface {
	BulkImportConversations(ctx context.Context, tenantID string, texts []string) (int64, error)
}
