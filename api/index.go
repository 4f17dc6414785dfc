// Package handler exposes the shop as a single serverless function.
package handler

import (
	"context"
	"net/http"
	"sync"

	"shopfront/internal/config"
	"shopfront/internal/database"
	"shopfront/internal/handlers"
	"shopfront/internal/obs"
	"shopfront/internal/services"
	"shopfront/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	once    sync.Once
	engine  http.Handler
	initErr error
)

// setup builds the engine once per function instance. Sessions live in memory and
// confirmations are only logged, as instances are short-lived.
func setup() {
	cfg := config.Load()
	gin.SetMode(gin.ReleaseMode)
	if err := obs.InitLogger(cfg.LogLevel, false); err != nil {
		initErr = err
		return
	}

	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		initErr = err
		return
	}
	if err := db.RunMigrations(); err != nil {
		initErr = err
		return
	}

	cart := services.NewCartService(db)
	notifier := services.NewTaskQueue(services.NewEmailService(services.SMTPConfig{From: cfg.SMTPFrom}), 1, cfg.NotifyQueueSize)
	notifier.Start(context.Background())

	engine, initErr = handlers.NewRouter(
		handlers.NewHandler(
			services.NewCatalogService(db),
			cart,
			services.NewCheckoutService(cart, db, notifier),
			services.NewAuthService(db),
		),
		handlers.RouterConfig{
			Sessions:       session.NewMemoryStore(cfg.SessionTTL),
			SessionOptions: session.Options{MaxAge: cfg.SessionTTL, Secure: true},
			CORSOrigins:    cfg.CORSOrigins,
		},
	)
}

// Handler serves every request routed to the function.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	if initErr != nil {
		obs.Logger.Error("shop setup failed", zap.Error(initErr))
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	engine.ServeHTTP(w, r)
}
