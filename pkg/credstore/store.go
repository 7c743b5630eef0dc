package credstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("credential not found")

type Store interface {
	// Resolve a record by its id (token subject).
	FindByID(ctx context.Context, id string) (Credential, error)
	// Resolve a record by the plaintext-pair fingerprint.
	FindByFingerprint(ctx context.Context, fp string) (Credential, error)
	// Create persists a new record. Fingerprint uniqueness is enforced by the
	// store itself; a concurrent duplicate insert returns the existing record.
	Create(ctx context.Context, c Credential) (Credential, error)
}
