package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"toolszone/internal/auth"
	"toolszone/internal/config"
	"toolszone/internal/http/server"
	"toolszone/internal/infra/chrome"
	"toolszone/internal/infra/logging"
	"toolszone/internal/infra/ratelimit"
	"toolszone/internal/pdfmerge"
	"toolszone/internal/store"
	"toolszone/internal/store/memory"
	"toolszone/internal/store/postgres"
)

var storeOpeners = map[string]store.Opener{
	config.StoreMemory:   memory.Open,
	config.StorePostgres: postgres.Open,
}

func main() {
	cfg := config.Load()
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Auth.GoogleClientID = v
	}
	// Allow common container env var to override chrome.path.
	if cfg.Chrome.Path == "" {
		if v := os.Getenv("CHROME_BIN"); v != "" {
			cfg.Chrome.Path = v
		}
	}
	logging.InitLogger(
		cfg.Logger.File,
		cfg.Logger.MaxSizeMB,
		cfg.Logger.MaxBackups,
		cfg.Logger.MaxAgeDays,
		cfg.Logger.Compress,
		cfg.Logger.Level,
	)

	st, err := store.Open(cfg, storeOpeners)
	if err != nil {
		logging.Error("Failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	logging.Info("Store ready", "driver", cfg.Store.Driver)

	var rdb *redis.Client
	if cfg.Cache.MergeCacheEnabled {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisHost,
			DB:   cfg.Cache.MergeCacheDB,
		})
		defer rdb.Close()
	}

	limiterStorage, err := ratelimit.NewStore(ratelimit.RedisConfig{
		Addr: cfg.Cache.RedisHost,
		DB:   cfg.Cache.RateLimitDB,
	})
	if err != nil {
		logging.Error("Failed to open rate limit storage", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	authSvc := auth.NewService(st, tokens)
	if cfg.Auth.GoogleClientID != "" {
		authSvc.WithGoogle(auth.NewGoogleVerifier(cfg.Auth.GoogleClientID))
		logging.Info("Google sign-in enabled")
	}
	app := server.New(server.Deps{
		Config: cfg,
		Store:  st,
		Auth:   authSvc,
		Merge: pdfmerge.NewService(pdfmerge.NewPDFCPUEngine(), pdfmerge.Limits{
			MaxFiles:     cfg.Limits.MaxFiles,
			MaxFileBytes: cfg.Limits.MaxFileBytes,
		}),
		Renderer: chrome.NewRenderer(chrome.Options{
			ExecPath:  cfg.Chrome.Path,
			NoSandbox: cfg.Chrome.NoSandbox,
			Timeout:   time.Duration(cfg.Chrome.TimeoutSecs) * time.Second,
		}),
		Redis:          rdb,
		LimiterStorage: limiterStorage,
	})

	idleConnsClosed := make(chan struct{})
	startServer(app, cfg, idleConnsClosed)
	<-idleConnsClosed
}

// startServer starts the Fiber app and blocks until SIGINT or SIGTERM.
func startServer(app *fiber.App, cfg config.Config, idleConnsClosed chan struct{}) {
	go func() {
		logging.Info("Server listening", "addr", cfg.Server.Host+cfg.Server.Port)
		if err := app.Listen(cfg.Server.Host + cfg.Server.Port); err != nil {
			logging.Error("Server error", "error", err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	<-sigint
	signal.Stop(sigint)

	logging.Warn("Shutdown signal received, closing server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
	}

	close(idleConnsClosed)
	logging.Info("Server stopped cleanly")
}
