package identity

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

func TestTokenRoundTrip(t *testing.T) {
	iss := NewTokenIssuer("signing-secret", time.Minute, time.Hour)
	tok, err := iss.IssueAccess("tenant-1")
	if err != nil {
		t.Fatal(err)
	}
	sub, err := iss.Verify(tok)
	if err != nil {
		t.Fatal(err)
	}
	if sub != "tenant-1" {
		t.Fatalf("subject: got %q want %q", sub, "tenant-1")
	}
}

func TestTokenExpiry(t *testing.T) {
	// Whole-second base: claim timestamps carry second precision only.
	base := time.Now().Truncate(time.Second)
	now := base
	iss := NewTokenIssuer("signing-secret", time.Second, time.Hour).
		WithClock(func() time.Time { return now })

	tok, err := iss.IssueAccess("tenant-1")
	if err != nil {
		t.Fatal(err)
	}

	now = base.Add(500 * time.Millisecond)
	if _, err := iss.Verify(tok); err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}

	now = base.Add(1500 * time.Millisecond)
	if _, err := iss.Verify(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("after expiry: got %v, want ErrTokenExpired", err)
	}
}

func TestTokenForeignKeyRejected(t *testing.T) {
	iss := NewTokenIssuer("signing-secret", time.Minute, time.Hour)
	foreign := NewTokenIssuer("other-secret", time.Minute, time.Hour)

	tok, err := foreign.IssueRefresh("tenant-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := iss.Verify(tok); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("foreign-key token: got %v, want ErrTokenMalformed", err)
	}
}

func TestTokenAlgorithmPinned(t *testing.T) {
	iss := NewTokenIssuer("signing-secret", time.Minute, time.Hour)

	// Same key bytes, different HMAC algorithm.
	tok, err := jwt.NewBuilder().
		Subject("tenant-1").
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Minute)).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS384, []byte("signing-secret")))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := iss.Verify(string(signed)); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("HS384 token: got %v, want ErrTokenMalformed", err)
	}

	// Unsigned token claiming alg "none".
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"tenant-1"}`))
	if _, err := iss.Verify(header + "." + payload + "."); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("unsigned token: got %v, want ErrTokenMalformed", err)
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	iss := NewTokenIssuer("signing-secret", time.Minute, time.Hour)
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := iss.Verify(raw); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("raw %q: got %v, want ErrTokenMalformed", raw, err)
		}
	}
}

func TestRefreshOutlivesAccess(t *testing.T) {
	base := time.Now()
	now := base
	iss := NewTokenIssuer("signing-secret", time.Minute, time.Hour).
		WithClock(func() time.Time { return now })

	access, _ := iss.IssueAccess("tenant-1")
	refresh, _ := iss.IssueRefresh("tenant-1")

	now = base.Add(30 * time.Minute)
	if _, err := iss.Verify(access); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("access token should be expired, got %v", err)
	}
	if _, err := iss.Verify(refresh); err != nil {
		t.Fatalf("refresh token should still verify: %v", err)
	}
}
