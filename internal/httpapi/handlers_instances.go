package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cloudpilot/internal/orchestrator"
)

func (a *App) identify(w http.ResponseWriter, r *http.Request) {
	res := a.orch.Identify(r.Context(), credsFrom(r.Context()))
	if res.Failed() {
		writeJSON(w, res.Body(), http.StatusOK)
		return
	}
	writeJSON(w, map[string]any{
		"message":  "identified!",
		"identity": fmt.Sprint(res.Payload()),
	}, http.StatusOK)
}

func (a *App) listImages(w http.ResponseWriter, r *http.Request) {
	res := a.orch.ListImages(r.Context(), credsFrom(r.Context()))
	writeRelayed(w, res)
}

func (a *App) listInstances(w http.ResponseWriter, r *http.Request) {
	res := a.orch.ListInstances(r.Context(), credsFrom(r.Context()))
	writeRelayed(w, res)
}

type launchBody struct {
	InstanceType    string `json:"instance_type"`
	AmiID           string `json:"ami_id"`
	KeyName         string `json:"key_name"`
	SecurityGroupID string `json:"security_group_id"`
	Region          string `json:"region"`
}

func (a *App) launchInstance(w http.ResponseWriter, r *http.Request) {
	var b launchBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if b.InstanceType == "" || !reAmiID.MatchString(b.AmiID) ||
		!reKeyName.MatchString(b.KeyName) || !reGroupID.MatchString(b.SecurityGroupID) {
		http.Error(w, "invalid launch parameters", http.StatusBadRequest)
		return
	}
	res := a.orch.Launch(r.Context(), credsFrom(r.Context()), orchestrator.LaunchSpec{
		InstanceType:    b.InstanceType,
		ImageID:         b.AmiID,
		KeyName:         b.KeyName,
		SecurityGroupID: b.SecurityGroupID,
		Region:          b.Region,
	})
	writeJSON(w, res.Body(), http.StatusOK)
}

func (a *App) startInstance(w http.ResponseWriter, r *http.Request) {
	a.instanceTransition(w, r, a.orch.Start)
}

func (a *App) stopInstance(w http.ResponseWriter, r *http.Request) {
	a.instanceTransition(w, r, a.orch.Stop)
}

func (a *App) terminateInstance(w http.ResponseWriter, r *http.Request) {
	a.instanceTransition(w, r, a.orch.Terminate)
}

func (a *App) instanceTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, creds orchestrator.AWSCredentials, id string) orchestrator.Result) {
	id := chi.URLParam(r, "instanceID")
	if !reInstanceID.MatchString(id) {
		http.Error(w, "invalid instance id", http.StatusBadRequest)
		return
	}
	res := op(r.Context(), credsFrom(r.Context()), id)
	writeJSON(w, res.Body(), http.StatusOK)
}

// writeRelayed wraps raw provider responses the way the read-only endpoints
// report them; failures keep the flat envelope shape.
func writeRelayed(w http.ResponseWriter, res orchestrator.Result) {
	if res.Failed() {
		writeJSON(w, res.Body(), http.StatusOK)
		return
	}
	writeJSON(w, map[string]any{"response": res.Payload()}, http.StatusOK)
}
