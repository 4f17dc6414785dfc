package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shopfront/internal/config"
	"shopfront/internal/database"
	"shopfront/internal/handlers"
	"shopfront/internal/obs"
	"shopfront/internal/services"
	"shopfront/internal/session"
	"shopfront/internal/tlsutil"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
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
		obs.Logger.Fatal("shop server stopped", zap.Error(err))
	}
}

// newSessionStore picks the session backend named in the config.
func newSessionStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		obs.Logger.Info("sessions stored in redis", zap.String("addr", cfg.RedisAddr))
		return session.NewRedisStore(client, cfg.SessionTTL), func() { client.Close() }, nil
	default:
		return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}
}

// newDeliverer picks where order confirmations go.
func newDeliverer(cfg config.Config) (services.Deliverer, func()) {
	switch cfg.NotifyBackend {
	case "kafka":
		p := services.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
		obs.Logger.Info("order confirmations published to kafka",
			zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
		return p, func() {
			if err := p.Close(); err != nil {
				obs.Logger.Warn("kafka writer close failed", zap.Error(err))
			}
		}
	case "log":
		return services.NewEmailService(services.SMTPConfig{From: cfg.SMTPFrom}), func() {}
	default:
		return services.NewEmailService(services.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		}), func() {}
	}
}

func run(cfg config.Config) error {
	// Production modunu aktif et
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		return err
	}

	sessions, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	deliverer, closeDeliverer := newDeliverer(cfg)
	defer closeDeliverer()

	queue := services.NewTaskQueue(deliverer, cfg.NotifyWorkers, cfg.NotifyQueueSize)
	queue.Start(context.Background())

	catalog := services.NewCatalogService(db)
	cart := services.NewCartService(db)
	checkout := services.NewCheckoutService(cart, db, queue)
	auth := services.NewAuthService(db)

	r, err := handlers.NewRouter(handlers.NewHandler(catalog, cart, checkout, auth), handlers.RouterConfig{
		Sessions: sessions,
		SessionOptions: session.Options{
			MaxAge: cfg.SessionTTL,
			Secure: cfg.CookieSecure,
		},
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return err
	}

	addr := cfg.HTTPAddr
	// Render.com gibi ortamlar portu PORT ile verir
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	srv := &http.Server{Addr: addr, Handler: r}

	if cfg.TLSSelfSigned {
		cert, err := tlsutil.SelfSigned("Shopfront")
		if err != nil {
			return err
		}
		srv.TLSConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		obs.Logger.Info("shop server listening", zap.String("addr", addr), zap.Bool("tls", srv.TLSConfig != nil))
		var err error
		if srv.TLSConfig != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		obs.Logger.Info("shutting down shop server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if !queue.Stop(shutdownCtx) {
			obs.Logger.Warn("notification queue did not drain before shutdown timeout")
		}
		enqueued, delivered, failed, dropped := queue.Metrics()
		obs.Logger.Info("notification queue stopped",
			zap.Uint64("enqueued", enqueued),
			zap.Uint64("delivered", delivered),
			zap.Uint64("failed", failed),
			zap.Uint64("dropped", dropped))
		return err
	})

	return g.Wait()
}
