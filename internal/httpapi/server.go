package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cloudpilot/pkg/middleware"
)

// Handler builds the HTTP handler with routes and middleware.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(a.log))
	r.Use(middleware.Tracing())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Post("/auth/register", a.register)

	r.Route("/instances", func(ir chi.Router) {
		ir.Use(a.bearerAuth)

		ir.Get("/identify", a.identify)
		ir.Get("/images", a.listImages)

		ir.Get("/", a.listInstances)
		ir.Post("/", a.launchInstance)
		ir.Post("/{instanceID}/start", a.startInstance)
		ir.Post("/{instanceID}/stop", a.stopInstance)
		ir.Delete("/{instanceID}", a.terminateInstance)

		ir.Get("/keypair", a.listKeyPairs)
		ir.Post("/keypair", a.createKeyPair)
		ir.Delete("/keypair", a.deleteKeyPair)

		ir.Get("/security-group", a.listSecurityGroups)
		ir.Get("/security-group/{groupID}", a.listSecurityGroupRules)
		ir.Post("/security-group", a.createSecurityGroup)
		ir.Delete("/security-group/{groupID}", a.deleteSecurityGroup)
	})

	return r
}
