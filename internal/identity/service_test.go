package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"cloudpilot/pkg/credstore"
)

func newTestService() (*Service, credstore.Store) {
	store := credstore.NewMemoryStore()
	sealer := NewSealer("encryption-secret")
	tokens := NewTokenIssuer("signing-secret", time.Minute, time.Hour)
	return NewService(store, sealer, tokens, zap.NewNop().Sugar()), store
}

func TestRegisterIdempotent(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	first, _, _, err := svc.Register(ctx, "AKIAEXAMPLE", "secret", "ap-south-1")
	if err != nil {
		t.Fatal(err)
	}

	// Repeat registrations, with varying region, must reuse the record.
	for _, region := range []string{"ap-south-1", "us-east-1", "eu-west-2"} {
		again, access, refresh, err := svc.Register(ctx, "AKIAEXAMPLE", "secret", region)
		if err != nil {
			t.Fatal(err)
		}
		if again.ID != first.ID {
			t.Fatalf("re-registration created a new record: %s vs %s", again.ID, first.ID)
		}
		if again.Region != "ap-south-1" {
			t.Fatalf("re-registration mutated region: %s", again.Region)
		}
		if access == "" || refresh == "" {
			t.Fatal("capabilities not issued on re-registration")
		}
	}

	if _, err := store.FindByFingerprint(ctx, Fingerprint("AKIAEXAMPLE", "secret")); err != nil {
		t.Fatalf("fingerprint lookup after registrations: %v", err)
	}
}

func TestRegisterDistinctPairsGetDistinctRecords(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _, _, err := svc.Register(ctx, "AKIAEXAMPLE", "secret-a", "ap-south-1")
	if err != nil {
		t.Fatal(err)
	}
	b, _, _, err := svc.Register(ctx, "AKIAEXAMPLE", "secret-b", "ap-south-1")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatal("distinct credential pairs shared a record")
	}
}

func TestAuthenticateRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cred, access, _, err := svc.Register(ctx, "AKIAEXAMPLE", "secret", "ap-south-1")
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.Authenticate(ctx, access)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != cred.ID {
		t.Fatalf("authenticate resolved wrong record: %s vs %s", got.ID, cred.ID)
	}

	key, secret, err := svc.DecryptCredentials(got)
	if err != nil {
		t.Fatal(err)
	}
	if key != "AKIAEXAMPLE" || secret != "secret" {
		t.Fatalf("decrypted credentials mismatch: %q/%q", key, secret)
	}
}

func TestAuthenticateUnknownSubject(t *testing.T) {
	svc, _ := newTestService()
	tokens := NewTokenIssuer("signing-secret", time.Minute, time.Hour)
	tok, err := tokens.IssueAccess("00000000-0000-0000-0000-000000000099")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Authenticate(context.Background(), tok); !errors.Is(err, ErrTenantNotFound) {
		t.Fatalf("stale subject: got %v, want ErrTenantNotFound", err)
	}
}

func TestAuthenticateBadToken(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Authenticate(context.Background(), "not-a-token"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("garbage token: got %v, want ErrTokenMalformed", err)
	}
}

func TestDecryptCredentialsAfterKeyRotation(t *testing.T) {
	store := credstore.NewMemoryStore()
	tokens := NewTokenIssuer("signing-secret", time.Minute, time.Hour)
	log := zap.NewNop().Sugar()

	original := NewService(store, NewSealer("old-secret"), tokens, log)
	cred, _, _, err := original.Register(context.Background(), "AKIAEXAMPLE", "secret", "ap-south-1")
	if err != nil {
		t.Fatal(err)
	}

	rotated := NewService(store, NewSealer("new-secret"), tokens, log)
	if _, _, err := rotated.DecryptCredentials(cred); !errors.Is(err, ErrDecryption) {
		t.Fatalf("rotated key: got %v, want ErrDecryption", err)
	}
}
