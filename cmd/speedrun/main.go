package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shopfront/internal/config"
	"shopfront/internal/obs"
	"shopfront/internal/speedrun"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	if err := obs.InitLogger(cfg.LogLevel, cfg.GinMode == gin.DebugMode); err != nil {
		panic(err)
	}
	defer obs.Sync()

	if err := run(cfg); err != nil {
		obs.Logger.Fatal("speedrun server stopped", zap.Error(err))
	}
}

func run(cfg config.Config) error {
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := speedrun.Open(cfg.SpeedrunDatabaseURL)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	store, err := speedrun.NewGormStore(db)
	if err != nil {
		return err
	}

	r, err := speedrun.NewRouter(speedrun.NewHandler(store))
	if err != nil {
		return err
	}
	srv := &http.Server{Addr: cfg.SpeedrunHTTPAddr, Handler: r}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		obs.Logger.Info("speedrun server listening", zap.String("addr", cfg.SpeedrunHTTPAddr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
