package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/passgen/passgen-go/internal/config"
	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/handler"
	"github.com/passgen/passgen-go/internal/middleware"
	"github.com/passgen/passgen-go/internal/repository"
	"github.com/passgen/passgen-go/internal/service"
	"github.com/passgen/passgen-go/internal/session"
	"github.com/passgen/passgen-go/internal/strength"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, db := openStore(ctx, cfg)
	if db != nil {
		defer db.Close()
	}

	go session.Janitor(ctx, store, cfg.SessionTTL, time.Minute)

	evaluator := strength.NewEvaluator(strength.NewZxcvbnScorer("passgen", "password", "generator"))
	passwordService := service.NewPasswordService(store, evaluator, service.Options{
		GenerateDelay: cfg.GenerateDelay,
		HistoryLimit:  cfg.HistoryLimit,
	})
	passwordHandler := handler.NewPasswordHandler(passwordService, cfg.IsProduction())

	r := handler.NewRouter(passwordHandler, handler.RouterConfig{
		Sessions: passwordService,
		SessionOptions: middleware.SessionOptions{
			Secret: cfg.SessionSecret,
			TTL:    cfg.SessionTTL,
			Secure: cfg.IsProduction(),
		},
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// openStore picks the session store. Without DATABASE_DSN, or when MySQL is
// unreachable, sessions live in process memory.
func openStore(ctx context.Context, cfg config.Config) (session.Store, *sql.DB) {
	if cfg.DatabaseDSN == "" {
		slog.Info("using in-memory session store")
		return session.NewMemoryStore(), nil
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Warn("database connection failed, falling back to in-memory sessions", "error", err)
		return session.NewMemoryStore(), nil
	}

	sealer, err := crypto.NewSealer(cfg.SessionSecret)
	if err != nil {
		slog.Error("session sealer", "error", err)
		os.Exit(1)
	}

	repo := repository.NewSessionRepository(db, sealer)
	if err := repo.Migrate(ctx); err != nil {
		slog.Warn("session table migration failed, falling back to in-memory sessions", "error", err)
		db.Close()
		return session.NewMemoryStore(), nil
	}

	slog.Info("using mysql session store")
	return repo, db
}
