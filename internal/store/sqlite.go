package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/stratevo/lead-engine/internal/lead"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY,
	tenant_id  TEXT NOT NULL,
	data       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY,
	tenant_id  TEXT NOT NULL,
	lead_id    TEXT REFERENCES leads(id),
	text       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_tenant ON leads(tenant_id);
CREATE INDEX IF NOT EXISTS idx_leads_cnpj ON leads(json_extract(data, '$.cnpj'));
CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(json_extract(data, '$.contactEmail'));
CREATE INDEX IF NOT EXISTS idx_conversations_tenant ON conversations(tenant_id);
CREATE INDEX IF NOT EXISTS idx_conversations_lead ON conversations(lead_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateLead(ctx context.Context, tenantID string, data *lead.LeadB2B) (*StoredLead, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal lead")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads (id, tenant_id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, tenantID, string(dataJSON), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert lead")
	}

	return &StoredLead{
		ID:        id,
		TenantID:  tenantID,
		Data:      data.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) UpdateLead(ctx context.Context, leadID string, data *lead.LeadB2B) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal lead")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET data = ?, updated_at = ? WHERE id = ?`,
		string(dataJSON), time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead %s", leadID)
	}
	return checkRowsAffected(res, "lead", leadID)
}

func (s *SQLiteStore) GetLead(ctx context.Context, leadID string) (*StoredLead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, data, created_at, updated_at FROM leads WHERE id = ?`,
		leadID,
	)
	return scanLead(row)
}

// FindLeadByIdentity locates an existing lead for the same company
// contact: CNPJ match first, then contact email, then phone. Returns
// nil without error when nothing matches or the record has no usable
// identity field.
func (s *SQLiteStore) FindLeadByIdentity(ctx context.Context, tenantID string, data *lead.LeadB2B) (*StoredLead, error) {
	for _, probe := range identityProbes(data) {
		row := s.db.QueryRowContext(ctx,
			`SELECT id, tenant_id, data, created_at, updated_at FROM leads
			 WHERE tenant_id = ? AND json_extract(data, ?) = ?
			 ORDER BY updated_at DESC LIMIT 1`,
			tenantID, probe.path, probe.value,
		)
		found, err := scanLead(row)
		if err != nil {
			return nil, err
		}
		if found != nil {
			return found, nil
		}
	}
	return nil, nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]StoredLead, error) {
	query := `SELECT id, tenant_id, data, created_at, updated_at FROM leads WHERE 1=1`
	var args []any

	if filter.TenantID != "" {
		query += ` AND tenant_id = ?`
		args = append(args, filter.TenantID)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []StoredLead
	for rows.Next() {
		l, err := scanLeadFromRows(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}

func (s *SQLiteStore) CreateConversation(ctx context.Context, tenantID, text string, leadID *string) (*Conversation, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, tenant_id, lead_id, text, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, tenantID, leadID, text, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert conversation")
	}

	return &Conversation{
		ID:        id,
		TenantID:  tenantID,
		LeadID:    leadID,
		Text:      text,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) LinkConversation(ctx context.Context, conversationID, leadID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET lead_id = ? WHERE id = ?`,
		leadID, conversationID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: link conversation %s", conversationID)
	}
	return checkRowsAffected(res, "conversation", conversationID)
}

func (s *SQLiteStore) ListOrphanConversations(ctx context.Context, tenantID string, limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, lead_id, text, created_at FROM conversations
		 WHERE tenant_id = ? AND lead_id IS NULL
		 ORDER BY created_at ASC LIMIT ?`,
		tenantID, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list orphan conversations")
	}
	defer rows.Close()

	var convs []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.TenantID, &c.LeadID, &c.Text, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan conversation")
		}
		convs = append(convs, c)
	}
	return convs, eris.Wrap(rows.Err(), "sqlite: orphan conversations iterate")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*StoredLead, error) {
	var l StoredLead
	var dataJSON string
	err := row.Scan(&l.ID, &l.TenantID, &dataJSON, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan lead")
	}
	if err := json.Unmarshal([]byte(dataJSON), &l.Data); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal lead data")
	}
	return &l, nil
}

func scanLeadFromRows(rows *sql.Rows) (*StoredLead, error) {
	return scanLead(rows)
}

func checkRowsAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrapf(err, "sqlite: rows affected for %s %s", kind, id)
	}
	if n == 0 {
		return eris.Errorf("sqlite: %s %s not found", kind, id)
	}
	return nil
}

// identityProbe pairs a JSON path in the lead document with the value
// to match on.
type identityProbe struct {
	path  string
	value string
}

func identityProbes(data *lead.LeadB2B) []identityProbe {
	if data == nil {
		return nil
	}
	var probes []identityProbe
	if data.CNPJ != nil && *data.CNPJ != "" {
		probes = append(probes, identityProbe{"$.cnpj", *data.CNPJ})
	}
	if data.ContactEmail != nil && *data.ContactEmail != "" {
		probes = append(probes, identityProbe{"$.contactEmail", *data.ContactEmail})
	}
	if data.ContactPhone != nil && *data.ContactPhone != "" {
		probes = append(probes, identityProbe{"$.contactPhone", *data.ContactPhone})
	}
	return probes
}
