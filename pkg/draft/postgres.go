package draft

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS drafts (
	slot       TEXT PRIMARY KEY,
	payload    BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps the slot in a Postgres table, for deployments where the
// engine runs server side and drafts must outlive a single host.
type PostgresStore struct {
	pool *pgxpool.Pool
	slot string
}

// OpenPostgres connects using dsn and ensures the schema. slot scopes the
// draft row; empty means SlotName.
func OpenPostgres(ctx context.Context, dsn, slot string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("draft: parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("draft: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("draft: ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("draft: migrate postgres: %w", err)
	}
	if slot == "" {
		slot = SlotName
	}
	return &PostgresStore{pool: pool, slot: slot}, nil
}

var _ Store = (*PostgresStore)(nil)

// Close releases the connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresStore) Read(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := p.pool.QueryRow(ctx, `SELECT payload FROM drafts WHERE slot = $1`, p.slot).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (p *PostgresStore) Write(ctx context.Context, payload []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO drafts (slot, payload, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (slot) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		p.slot, payload,
	)
	return err
}

func (p *PostgresStore) Clear(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM drafts WHERE slot = $1`, p.slot)
	return err
}
