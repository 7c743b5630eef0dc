package identity

import (
	"errors"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("invalid token")
)

// TokenIssuer mints and verifies the bearer (access) and renewal (refresh)
// capabilities. Exactly one algorithm is accepted: HS256 is pinned on both
// sign and verify, so a token signed any other way is rejected as malformed.
type TokenIssuer struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(signingSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		signingKey: []byte(signingSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	t.now = now
	return t
}

func (t *TokenIssuer) IssueAccess(subject string) (string, error) {
	return t.issue(subject, t.accessTTL)
}

func (t *TokenIssuer) IssueRefresh(subject string) (string, error) {
	return t.issue(subject, t.refreshTTL)
}

func (t *TokenIssuer) issue(subject string, ttl time.Duration) (string, error) {
	now := t.now().UTC()
	tok, err := jwt.NewBuilder().
		Subject(subject).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		Build()
	if err != nil {
		return "", err
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, t.signingKey))
	if err != nil {
		return "", err
	}
	return string(signed), nil
}

// Verify validates signature and expiry and returns the token subject.
func (t *TokenIssuer) Verify(raw string) (string, error) {
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, t.signingKey),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(t.now)),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenMalformed
	}
	sub := tok.Subject()
	if sub == "" {
		return "", ErrTokenMalformed
	}
	return sub, nil
}
