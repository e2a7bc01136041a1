package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tinoosan/bank/internal/auth"
	httpapi "github.com/tinoosan/bank/internal/httpapi/v1"
	"github.com/tinoosan/bank/internal/ident"
	"github.com/tinoosan/bank/internal/service/account"
	"github.com/tinoosan/bank/internal/service/transaction"
	filestore "github.com/tinoosan/bank/internal/storage/file"
	pgstore "github.com/tinoosan/bank/internal/storage/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logger (slog to stdout). Level via LOG_LEVEL; format via LOG_FORMAT (json|text, default json)
	logger := buildLoggerFromEnv()
	slog.SetDefault(logger)

	currency := strings.ToUpper(strings.TrimSpace(os.Getenv("BANK_CURRENCY")))
	if currency == "" {
		currency = "USD"
	}

	type ledgerStore interface {
		account.Store
		transaction.Store
		httpapi.ReadyChecker
	}
	var store ledgerStore
	var closeFn func()

	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
		// Use Postgres store when DATABASE_URL is provided
		pg, err := pgstore.Open(ctx, dsn)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		closeFn = func() { pg.Close() }
		store = pg
		logger.Info("storage backend: postgres")
	} else {
		path := strings.TrimSpace(os.Getenv("LEDGER_PATH"))
		if path == "" {
			path = "data/ledger.json"
		}
		store = filestore.New(path)
		logger.Info("storage backend: file", "path", path)
	}

	accountSvc := account.New(store, ident.New())
	txSvc := transaction.New(store)

	secret := []byte(strings.TrimSpace(os.Getenv("JWT_HS256_SECRET")))
	issuer := strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	ttl := parseTokenTTL(os.Getenv("TOKEN_TTL"))
	var authSvc *auth.Service
	if len(secret) > 0 {
		authSvc = auth.New(accountSvc, secret, issuer, ttl)
	} else {
		logger.Warn("JWT_HS256_SECRET not set; login disabled and account routes unauthenticated")
	}

	addr := strings.TrimSpace(os.Getenv("ADDR"))
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.New(accountSvc, txSvc, authSvc, store, currency, secret, issuer, logger).Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bank service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

// parseTokenTTL maps TOKEN_TTL to a duration, defaulting to one hour.
func parseTokenTTL(s string) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Hour
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLoggerFromEnv() *slog.Logger {
	level := parseLogLevel(os.Getenv("LOG_LEVEL"))
	format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
