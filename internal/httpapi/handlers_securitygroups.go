package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cloudpilot/internal/orchestrator"
)

type ruleBody struct {
	Protocol string `json:"protocol"`
	Port     int32  `json:"port"`
	CIDR     string `json:"cidr"`
}

type securityGroupBody struct {
	GroupName   string     `json:"group_name"`
	Description string     `json:"description"`
	VpcID       string     `json:"vpc_id"`
	Region      string     `json:"region"`
	Rules       []ruleBody `json:"rules"`
}

func (a *App) listSecurityGroups(w http.ResponseWriter, r *http.Request) {
	res := a.orch.ListSecurityGroups(r.Context(), credsFrom(r.Context()))
	writeRelayed(w, res)
}

func (a *App) listSecurityGroupRules(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "groupID")
	if !reGroupID.MatchString(id) {
		http.Error(w, "invalid security group id", http.StatusBadRequest)
		return
	}
	res := a.orch.ListSecurityGroupRules(r.Context(), credsFrom(r.Context()), id)
	writeRelayed(w, res)
}

func (a *App) createSecurityGroup(w http.ResponseWriter, r *http.Request) {
	var b securityGroupBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if !validGroupName(b.GroupName) || b.Description == "" {
		http.Error(w, "invalid group name or description", http.StatusBadRequest)
		return
	}
	spec := orchestrator.SecurityGroupSpec{
		GroupName:   b.GroupName,
		Description: b.Description,
		VpcID:       b.VpcID,
		Region:      b.Region,
	}
	for _, rule := range b.Rules {
		if rule.Protocol == "" {
			rule.Protocol = "tcp"
		}
		if rule.CIDR == "" {
			rule.CIDR = "0.0.0.0/0"
		}
		if !validPort(rule.Port) || !validCIDR(rule.CIDR) {
			http.Error(w, "invalid ingress rule", http.StatusBadRequest)
			return
		}
		spec.Rules = append(spec.Rules, orchestrator.IngressRule{
			Protocol: rule.Protocol,
			Port:     rule.Port,
			CIDR:     rule.CIDR,
		})
	}
	res := a.orch.CreateSecurityGroup(r.Context(), credsFrom(r.Context()), spec)
	writeJSON(w, res.Body(), http.StatusOK)
}

func (a *App) deleteSecurityGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "groupID")
	if !reGroupID.MatchString(id) {
		http.Error(w, "invalid security group id", http.StatusBadRequest)
		return
	}
	res := a.orch.DeleteSecurityGroup(r.Context(), credsFrom(r.Context()), id)
	writeJSON(w, res.Body(), http.StatusOK)
}
