package identity

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"cloudpilot/pkg/credstore"
)

// ErrTenantNotFound is returned when a verified token's subject no longer
// resolves to a stored credential record.
var ErrTenantNotFound = errors.New("tenant not found")

// Service owns tenant registration, secret-at-rest encryption, fingerprint
// deduplication and token issuance. Decryption happens only at point of use;
// everything returned from Authenticate still carries ciphertext.
type Service struct {
	store  credstore.Store
	sealer *Sealer
	tokens *TokenIssuer
	log    *zap.SugaredLogger
}

func NewService(store credstore.Store, sealer *Sealer, tokens *TokenIssuer, log *zap.SugaredLogger) *Service {
	return &Service{store: store, sealer: sealer, tokens: tokens, log: log}
}

// Register stores a never-seen credential pair and returns a bearer plus
// renewal capability for the owning record. Registering the same pair again
// reuses the existing record unchanged (no re-encryption, no region update),
// which makes the call idempotent under retries.
func (s *Service) Register(ctx context.Context, accessKey, secretKey, region string) (credstore.Credential, string, string, error) {
	fp := Fingerprint(accessKey, secretKey)

	cred, err := s.store.FindByFingerprint(ctx, fp)
	if errors.Is(err, credstore.ErrNotFound) {
		encKey, eerr := s.sealer.Encrypt(accessKey)
		if eerr != nil {
			return credstore.Credential{}, "", "", eerr
		}
		encSecret, eerr := s.sealer.Encrypt(secretKey)
		if eerr != nil {
			return credstore.Credential{}, "", "", eerr
		}
		cred, err = s.store.Create(ctx, credstore.Credential{
			EncryptedKey:    encKey,
			EncryptedSecret: encSecret,
			Region:          region,
			Fingerprint:     fp,
		})
		if err == nil {
			s.log.Infow("credential registered", "id", cred.ID)
		}
	}
	if err != nil {
		return credstore.Credential{}, "", "", err
	}

	access, err := s.tokens.IssueAccess(cred.ID)
	if err != nil {
		return credstore.Credential{}, "", "", err
	}
	refresh, err := s.tokens.IssueRefresh(cred.ID)
	if err != nil {
		return credstore.Credential{}, "", "", err
	}
	return cred, access, refresh, nil
}

// Authenticate verifies a bearer token and resolves its subject to the full
// credential record. Token failures surface as ErrTokenExpired or
// ErrTokenMalformed; a stale subject as ErrTenantNotFound.
func (s *Service) Authenticate(ctx context.Context, bearer string) (credstore.Credential, error) {
	sub, err := s.tokens.Verify(bearer)
	if err != nil {
		return credstore.Credential{}, err
	}
	cred, err := s.store.FindByID(ctx, sub)
	if errors.Is(err, credstore.ErrNotFound) {
		return credstore.Credential{}, ErrTenantNotFound
	}
	if err != nil {
		return credstore.Credential{}, err
	}
	return cred, nil
}

// DecryptCredentials reverses the at-rest encryption of a record. Integrity
// failures (key rotation, tampering) surface as ErrDecryption.
func (s *Service) DecryptCredentials(cred credstore.Credential) (accessKey, secretKey string, err error) {
	accessKey, err = s.sealer.Decrypt(cred.EncryptedKey)
	if err != nil {
		return "", "", err
	}
	secretKey, err = s.sealer.Decrypt(cred.EncryptedSecret)
	if err != nil {
		return "", "", err
	}
	return accessKey, secretKey, nil
}
