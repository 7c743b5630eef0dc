package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"cloudpilot/internal/orchestrator"
)

type keyPairBody struct {
	KeyName string `json:"key_name"`
	Region  string `json:"region"`
}

func (a *App) listKeyPairs(w http.ResponseWriter, r *http.Request) {
	res := a.orch.ListKeyPairs(r.Context(), credsFrom(r.Context()))
	writeRelayed(w, res)
}

// createKeyPair returns the private key material as a one-time downloadable
// artifact. Nothing is persisted server-side; losing the download means
// recreating the key pair.
func (a *App) createKeyPair(w http.ResponseWriter, r *http.Request) {
	b, ok := a.decodeKeyPairBody(w, r)
	if !ok {
		return
	}
	creds := credsFrom(r.Context()).WithRegion(b.Region)
	res := a.orch.CreateKeyPair(r.Context(), creds, b.KeyName)
	if res.Failed() {
		writeJSON(w, res.Body(), http.StatusOK)
		return
	}
	km := res.Payload().(orchestrator.KeyMaterial)
	w.Header().Set("Content-Type", "application/x-pem-file")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pem", km.KeyName))
	_, _ = w.Write([]byte(km.PEM))
}

func (a *App) deleteKeyPair(w http.ResponseWriter, r *http.Request) {
	b, ok := a.decodeKeyPairBody(w, r)
	if !ok {
		return
	}
	creds := credsFrom(r.Context()).WithRegion(b.Region)
	res := a.orch.DeleteKeyPair(r.Context(), creds, b.KeyName)
	writeJSON(w, res.Body(), http.StatusOK)
}

func (a *App) decodeKeyPairBody(w http.ResponseWriter, r *http.Request) (keyPairBody, bool) {
	var b keyPairBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return keyPairBody{}, false
	}
	if !reKeyName.MatchString(b.KeyName) {
		http.Error(w, "invalid key name", http.StatusBadRequest)
		return keyPairBody{}, false
	}
	return b, true
}
