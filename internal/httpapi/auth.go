package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cloudpilot/internal/identity"
	"cloudpilot/internal/orchestrator"
)

type ctxCredsKey struct{}

// bearerAuth authenticates the bearer capability, decrypts the tenant's cloud
// credentials and stashes them in the request context. Auth failures are the
// only errors that abort a request before orchestration: 401 for a missing,
// malformed or expired token, 404 when the subject no longer resolves.
func (a *App) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			http.Error(w, "missing bearer", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimSpace(authz[len("Bearer "):])

		cred, err := a.identity.Authenticate(r.Context(), raw)
		if err != nil {
			if errors.Is(err, identity.ErrTenantNotFound) {
				http.Error(w, "tenant not found", http.StatusNotFound)
				return
			}
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		accessKey, secretKey, err := a.identity.DecryptCredentials(cred)
		if err != nil {
			a.log.Errorw("credential decrypt", "id", cred.ID, "err", err)
			http.Error(w, "credential decryption failed", http.StatusInternalServerError)
			return
		}

		creds := orchestrator.AWSCredentials{AccessKey: accessKey, SecretKey: secretKey, Region: cred.Region}
		ctx := context.WithValue(r.Context(), ctxCredsKey{}, creds)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func credsFrom(ctx context.Context) orchestrator.AWSCredentials {
	if v := ctx.Value(ctxCredsKey{}); v != nil {
		return v.(orchestrator.AWSCredentials)
	}
	return orchestrator.AWSCredentials{}
}
