package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
)

// Schema for the Postgres-backed stores. Applied by the operator; kept
// here so the expected shape is next to the queries that use it.
const Schema = `
CREATE TABLE IF NOT EXISTS transfer_history (
	transfer_id    UUID PRIMARY KEY,
	user_id        UUID NOT NULL,
	channel        TEXT NOT NULL,
	label          TEXT NOT NULL,
	currency       TEXT NOT NULL,
	amount_cents   BIGINT NOT NULL,
	status         TEXT NOT NULL,
	fail_reason    TEXT,
	reference_code TEXT,
	completed_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS transfer_history_user_completed
	ON transfer_history (user_id, completed_at DESC);

CREATE TABLE IF NOT EXISTS idempotency_keys (
	key_id          TEXT PRIMARY KEY,
	response_status INT NOT NULL,
	response_body   BYTEA NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// ConnectDB initializes the pgx connection pool. Pool limits are kept low;
// the service holds no long transactions.
func ConnectDB(databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 0
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return pool, nil
}

var _ HistoryStore = (*PostgresHistory)(nil)

// PostgresHistory is the durable history store, selected when
// DATABASE_URL is configured.
type PostgresHistory struct {
	Db *pgxpool.Pool
}

func NewPostgresHistory(db *pgxpool.Pool) *PostgresHistory {
	return &PostgresHistory{Db: db}
}

func (h *PostgresHistory) Append(entry domain.HistoryEntry) {
	// Appends happen inside the engine's critical section; the write itself
	// runs on a short background deadline so a slow database cannot stall
	// confirmations indefinitely.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := h.Db.Exec(ctx, `
		INSERT INTO transfer_history
			(transfer_id, user_id, channel, label, currency, amount_cents, status, fail_reason, reference_code, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10)
		ON CONFLICT (transfer_id) DO NOTHING`,
		entry.TransferID, entry.UserID, entry.Channel, entry.Label, entry.Currency,
		entry.AmountCents, entry.Status, string(entry.FailReason), entry.ReferenceCode, entry.CompletedAt)
	if err != nil {
		// History is a projection; losing one row must not fail the transfer.
		slog.Error("history append failed", "error", err, "transfer_id", entry.TransferID)
	}
}

func (h *PostgresHistory) List(userID uuid.UUID, page, pageSize int) ([]domain.HistoryEntry, bool) {
	if page < 0 || pageSize <= 0 {
		return []domain.HistoryEntry{}, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var total int
	if err := h.Db.QueryRow(ctx,
		`SELECT COUNT(*) FROM transfer_history WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return []domain.HistoryEntry{}, false
	}

	rows, err := h.Db.Query(ctx, `
		SELECT transfer_id, user_id, channel, label, currency, amount_cents,
		       status, COALESCE(fail_reason, ''), COALESCE(reference_code, ''), completed_at
		FROM transfer_history
		WHERE user_id = $1
		ORDER BY completed_at DESC
		LIMIT $2 OFFSET $3`,
		userID, pageSize, page*pageSize)
	if err != nil {
		return []domain.HistoryEntry{}, false
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var e domain.HistoryEntry
		var failReason, reference string
		if err := rows.Scan(&e.TransferID, &e.UserID, &e.Channel, &e.Label, &e.Currency,
			&e.AmountCents, &e.Status, &failReason, &reference, &e.CompletedAt); err != nil {
			continue
		}
		e.FailReason = domain.FailReason(failReason)
		e.ReferenceCode = reference
		entries = append(entries, e)
	}
	return entries, (page+1)*pageSize < total
}
