package storage

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/adapter/middleware"
)

var (
	_ middleware.IdempotencyStore = (*MemoryIdempotency)(nil)
	_ middleware.IdempotencyStore = (*PostgresIdempotency)(nil)
)

// MemoryIdempotency keeps recorded responses in a map. Good enough for a
// single process; entries live for the lifetime of the process.
type MemoryIdempotency struct {
	mu        sync.Mutex
	responses map[string]recordedResponse
}

type recordedResponse struct {
	status int
	body   []byte
}

func NewMemoryIdempotency() *MemoryIdempotency {
	return &MemoryIdempotency{responses: make(map[string]recordedResponse)}
}

func (m *MemoryIdempotency) Lookup(ctx context.Context, key string) (int, []byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.responses[key]
	if !ok {
		return 0, nil, false, nil
	}
	return r.status, r.body, true, nil
}

func (m *MemoryIdempotency) Record(ctx context.Context, key string, status int, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.responses[key]; exists {
		return nil
	}
	cp := make([]byte, len(body))
	copy(cp, body)
	m.responses[key] = recordedResponse{status: status, body: cp}
	return nil
}

// PostgresIdempotency records responses in the idempotency_keys table,
// surviving restarts.
type PostgresIdempotency struct {
	Db *pgxpool.Pool
}

func NewPostgresIdempotency(db *pgxpool.Pool) *PostgresIdempotency {
	return &PostgresIdempotency{Db: db}
}

func (p *PostgresIdempotency) Lookup(ctx context.Context, key string) (int, []byte, bool, error) {
	var status int
	var body []byte
	err := p.Db.QueryRow(ctx,
		`SELECT response_status, response_body FROM idempotency_keys WHERE key_id = $1`,
		key).Scan(&status, &body)
	if err != nil {
		return 0, nil, false, nil
	}
	return status, body, true, nil
}

func (p *PostgresIdempotency) Record(ctx context.Context, key string, status int, body []byte) error {
	_, err := p.Db.Exec(ctx,
		`INSERT INTO idempotency_keys (key_id, response_status, response_body)
		 VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		key, status, body)
	return err
}
