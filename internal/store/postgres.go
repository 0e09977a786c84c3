package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/stratevo/lead-engine/internal/db"
	"github.com/stratevo/lead-engine/internal/lead"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_lead":         `INSERT INTO leads (id, tenant_id, data, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
	"update_lead":         `UPDATE leads SET data = $1, updated_at = $2 WHERE id = $3`,
	"get_lead":            `SELECT id, tenant_id, data, created_at, updated_at FROM leads WHERE id = $1`,
	"insert_conversation": `INSERT INTO conversations (id, tenant_id, lead_id, text, created_at) VALUES ($1, $2, $3, $4, $5)`,
	"link_conversation":   `UPDATE conversations SET lead_id = $1 WHERE id = $2`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// Pool returns the underlying database pool for subsystems that need
// direct query access (e.g., bulk conversation imports).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	tenant_id  TEXT NOT NULL,
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	tenant_id  TEXT NOT NULL,
	lead_id    TEXT REFERENCES leads(id),
	text       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_tenant ON leads(tenant_id);
CREATE INDEX IF NOT EXISTS idx_leads_cnpj ON leads((data->>'cnpj'));
CREATE INDEX IF NOT EXISTS idx_leads_email ON leads((data->>'contactEmail'));
CREATE INDEX IF NOT EXISTS idx_conversations_tenant ON conversations(tenant_id);
CREATE INDEX IF NOT EXISTS idx_conversations_lead ON conversations(lead_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, tenantID string, data *lead.LeadB2B) (*StoredLead, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal lead")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO leads (id, tenant_id, data, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, tenantID, dataJSON, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert lead")
	}

	return &StoredLead{
		ID:        id,
		TenantID:  tenantID,
		Data:      data.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) UpdateLead(ctx context.Context, leadID string, data *lead.LeadB2B) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal lead")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET data = $1, updated_at = $2 WHERE id = $3`,
		dataJSON, time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update lead %s", leadID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: lead %s not found", leadID)
	}
	return nil
}

func (s *PostgresStore) GetLead(ctx context.Context, leadID string) (*StoredLead, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, data, created_at, updated_at FROM leads WHERE id = $1`,
		leadID,
	)
	return scanPgLead(row)
}

// FindLeadByIdentity locates an existing lead for the same company
// contact: CNPJ match first, then contact email, then phone.
func (s *PostgresStore) FindLeadByIdentity(ctx context.Context, tenantID string, data *lead.LeadB2B) (*StoredLead, error) {
	for _, probe := range identityProbes(data) {
		row := s.pool.QueryRow(ctx,
			`SELECT id, tenant_id, data, created_at, updated_at FROM leads
			 WHERE tenant_id = $1 AND data->>`+pgProbeColumn(probe.path)+` = $2
			 ORDER BY updated_at DESC LIMIT 1`,
			tenantID, probe.value,
		)
		found, err := scanPgLead(row)
		if err != nil {
			return nil, err
		}
		if found != nil {
			return found, nil
		}
	}
	return nil, nil
}

// pgProbeColumn converts a SQLite JSON path ($.field) to a quoted
// Postgres JSONB key literal.
func pgProbeColumn(path string) string {
	return "'" + path[2:] + "'"
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]StoredLead, error) {
	query := `SELECT id, tenant_id, data, created_at, updated_at FROM leads WHERE 1=1`
	var args []any

	if filter.TenantID != "" {
		args = append(args, filter.TenantID)
		query += ` AND tenant_id = $1`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []StoredLead
	for rows.Next() {
		l, err := scanPgLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}

func (s *PostgresStore) CreateConversation(ctx context.Context, tenantID, text string, leadID *string) (*Conversation, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO conversations (id, tenant_id, lead_id, text, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, tenantID, leadID, text, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert conversation")
	}

	return &Conversation{
		ID:        id,
		TenantID:  tenantID,
		LeadID:    leadID,
		Text:      text,
		CreatedAt: now,
	}, nil
}

func (s *PostgresStore) LinkConversation(ctx context.Context, conversationID, leadID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE conversations SET lead_id = $1 WHERE id = $2`,
		leadID, conversationID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: link conversation %s", conversationID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: conversation %s not found", conversationID)
	}
	return nil
}

func (s *PostgresStore) ListOrphanConversations(ctx context.Context, tenantID string, limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, lead_id, text, created_at FROM conversations
		 WHERE tenant_id = $1 AND lead_id IS NULL
		 ORDER BY created_at ASC LIMIT $2`,
		tenantID, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list orphan conversations")
	}
	defer rows.Close()

	var convs []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.TenantID, &c.LeadID, &c.Text, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan conversation")
		}
		convs = append(convs, c)
	}
	return convs, eris.Wrap(rows.Err(), "postgres: orphan conversations iterate")
}

// BulkImportConversations COPYs raw conversation texts in a single
// round trip, leaving them unlinked for later recovery. Backing store
// for the import-only batch path.
func (s *PostgresStore) BulkImportConversations(ctx context.Context, tenantID string, texts []string) (int64, error) {
	now := time.Now().UTC()
	rows := make([][]any, 0, len(texts))
	for _, text := range texts {
		rows = append(rows, []any{uuid.New().String(), tenantID, nil, text, now})
	}
	return db.CopyFrom(ctx, s.pool, "conversations",
		[]string{"id", "tenant_id", "lead_id", "text", "created_at"}, rows)
}

func scanPgLead(row pgx.Row) (*StoredLead, error) {
	var l StoredLead
	var dataJSON []byte
	err := row.Scan(&l.ID, &l.TenantID, &dataJSON, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan lead")
	}
	if err := json.Unmarshal(dataJSON, &l.Data); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal lead data")
	}
	return &l, nil
}
