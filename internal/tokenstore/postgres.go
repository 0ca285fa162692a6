package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultSlot = "default"

const credentialSchema = `CREATE TABLE IF NOT EXISTS portal_credentials (
    slot       TEXT PRIMARY KEY,
    auth_token TEXT NOT NULL,
    auth_type  TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

// PostgresStorage keeps the credential as a single row keyed by slot.
type PostgresStorage struct {
	db   *pgxpool.Pool
	slot string
}

// NewPostgresStorage builds a Postgres-backed storage. An empty slot uses "default".
func NewPostgresStorage(db *pgxpool.Pool, slot string) *PostgresStorage {
	if slot == "" {
		slot = defaultSlot
	}
	return &PostgresStorage{db: db, slot: slot}
}

// EnsureSchema creates the credentials table when missing.
func (p *PostgresStorage) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, credentialSchema); err != nil {
		return fmt.Errorf("ensure credential schema: %w", err)
	}
	return nil
}

// Load fetches the slot row.
func (p *PostgresStorage) Load(ctx context.Context) (Credential, bool, error) {
	row := p.db.QueryRow(ctx, `SELECT auth_token, auth_type FROM portal_credentials WHERE slot = $1`, p.slot)
	var token, rawKind string
	if err := row.Scan(&token, &rawKind); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Credential{}, false, nil
		}
		return Credential{}, false, err
	}
	kind, err := ParseKind(rawKind)
	if err != nil {
		return Credential{}, false, err
	}
	return Credential{Token: token, Kind: kind}, true, nil
}

// Save upserts the slot row.
func (p *PostgresStorage) Save(ctx context.Context, cred Credential) error {
	_, err := p.db.Exec(ctx, `INSERT INTO portal_credentials (slot, auth_token, auth_type, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (slot) DO UPDATE SET auth_token = EXCLUDED.auth_token, auth_type = EXCLUDED.auth_type, updated_at = EXCLUDED.updated_at`,
		p.slot, cred.Token, string(cred.Kind), time.Now().UTC())
	return err
}

// Delete removes the slot row.
func (p *PostgresStorage) Delete(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `DELETE FROM portal_credentials WHERE slot = $1`, p.slot)
	return err
}
