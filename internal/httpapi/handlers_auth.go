package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

const defaultRegion = "ap-south-1"

type registerBody struct {
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Region    string `json:"region"`
}

// register stores (or idempotently reuses) a credential pair and issues both
// capabilities. The bearer token travels in the body; the renewal token only
// in a protected cookie so a leaked bearer token alone cannot extend a
// session.
func (a *App) register(w http.ResponseWriter, r *http.Request) {
	var b registerBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if b.AccessKey == "" || b.SecretKey == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}
	if b.Region == "" {
		b.Region = defaultRegion
	}

	_, access, refresh, err := a.identity.Register(r.Context(), b.AccessKey, b.SecretKey, b.Region)
	if err != nil {
		a.log.Errorw("register", "err", err)
		http.Error(w, "registration failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refresh,
		Path:     "/",
		Expires:  time.Now().Add(a.refreshTTL),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, map[string]any{"token": access}, http.StatusOK)
}
