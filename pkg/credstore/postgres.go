// pkg/credstore/postgres.go
package credstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgStore implements Store backed by PostgreSQL.
type pgStore struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
}

// NewPostgresStore constructs a PostgreSQL-backed credential store.
func NewPostgresStore(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Store {
	return &pgStore{dbPool: dbPool, log: log}
}

// EnsureSchema creates the credentials table if it does not already exist.
// Safe to call repeatedly (idempotent). The UNIQUE constraint on fingerprint
// makes registration race-free and its backing index serves the fingerprint
// lookups; callers never read-then-write.
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS aws_credentials (
  id uuid PRIMARY KEY,
  encrypted_key bytea NOT NULL,
  encrypted_secret bytea NOT NULL,
  region text NOT NULL DEFAULT 'ap-south-1',
  fingerprint text NOT NULL UNIQUE,
  created_at timestamptz NOT NULL DEFAULT NOW()
);
`)
	return err
}

func (s *pgStore) FindByID(ctx context.Context, id string) (Credential, error) {
	row := s.dbPool.QueryRow(ctx, `SELECT id, encrypted_key, encrypted_secret, region, fingerprint FROM aws_credentials WHERE id=$1`, id)
	return scanCredential(row)
}

func (s *pgStore) FindByFingerprint(ctx context.Context, fp string) (Credential, error) {
	row := s.dbPool.QueryRow(ctx, `SELECT id, encrypted_key, encrypted_secret, region, fingerprint FROM aws_credentials WHERE fingerprint=$1`, fp)
	return scanCredential(row)
}

func (s *pgStore) Create(ctx context.Context, c Credential) (Credential, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	row := s.dbPool.QueryRow(ctx, `
INSERT INTO aws_credentials(id, encrypted_key, encrypted_secret, region, fingerprint)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (fingerprint) DO NOTHING
RETURNING id`, c.ID, c.EncryptedKey, c.EncryptedSecret, c.Region, c.Fingerprint)
	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the insert race; the winner's record is the canonical one.
			return s.FindByFingerprint(ctx, c.Fingerprint)
		}
		return Credential{}, err
	}
	c.ID = id
	return c, nil
}

func scanCredential(row pgx.Row) (Credential, error) {
	var c Credential
	if err := row.Scan(&c.ID, &c.EncryptedKey, &c.EncryptedSecret, &c.Region, &c.Fingerprint); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Credential{}, ErrNotFound
		}
		return Credential{}, err
	}
	return c, nil
}
