// cmd/api-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloudpilot/internal/httpapi"
	"cloudpilot/internal/identity"
	"cloudpilot/internal/orchestrator"
	"cloudpilot/pkg/config"
	"cloudpilot/pkg/credstore"
	"cloudpilot/pkg/db"
	"cloudpilot/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	pool := db.MustConnect(cfg, log)

	var store credstore.Store
	if pool != nil {
		if err := credstore.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
		store = credstore.NewPostgresStore(pool, log)
	} else {
		store = credstore.NewMemoryStore()
	}

	sealer := identity.NewSealer(cfg.EncryptionSecret)
	tokens := identity.NewTokenIssuer(cfg.SigningSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	ident := identity.NewService(store, sealer, tokens, log)
	orch := orchestrator.NewService(orchestrator.NewAWSClientFactory(), log)

	app := httpapi.New(log, ident, orch, cfg.RefreshTokenTTL)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: app.Handler()}
	go func() {
		log.Infow("api-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("api-service stopped")
}
