package httpapi

import (
	"time"

	"go.uber.org/zap"

	"cloudpilot/internal/identity"
	"cloudpilot/internal/orchestrator"
)

// App is the api-service application container: shared deps and config only.
// Request-scoped work goes through context.
type App struct {
	log        *zap.SugaredLogger
	identity   *identity.Service
	orch       *orchestrator.Service
	refreshTTL time.Duration
}

func New(log *zap.SugaredLogger, ident *identity.Service, orch *orchestrator.Service, refreshTTL time.Duration) *App {
	return &App{log: log, identity: ident, orch: orch, refreshTTL: refreshTTL}
}
