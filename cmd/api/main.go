package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookclub/internal/book"
	"bookclub/internal/config"
	"bookclub/internal/httpx"
	"bookclub/internal/platform/crypto"
	"bookclub/internal/store"
	"bookclub/internal/web"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := config.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bookStore, err := store.NewFromConfig(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("cannot open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer bookStore.Close()

	pages, err := web.NewRenderer(logger)
	if err != nil {
		logger.Error("cannot parse templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	bookService := book.NewService(bookStore, book.WithMembers(cfg.Members))
	formTokens := crypto.NewFormSigner(cfg.SecretKey, cfg.FormTokenTTL)
	bookHandler := book.NewHTTPHandler(bookService, pages, formTokens, logger)

	router := newRouter(bookHandler, bookStore)

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		httpx.MetricsMiddleware,
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
		rateLimiter.Middleware,
	)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", cfg.Addr), slog.String("store", cfg.Store.Backend))
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
		}
	}
}

func newRouter(bookHandler *book.HTTPHandler, repo book.Repository) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if _, err := repo.FetchAll(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.Handler())
	router.Handle("GET /static/", web.Static())

	router.HandleFunc("GET /{$}", bookHandler.Home)
	router.HandleFunc("GET /books", bookHandler.Books)
	router.HandleFunc("GET /add", bookHandler.AddForm)
	router.HandleFunc("POST /add", bookHandler.Submit)
	router.HandleFunc("GET /search", bookHandler.Placeholder("Szukaj"))
	router.HandleFunc("GET /stats", bookHandler.Placeholder("Statystyki"))
	router.HandleFunc("GET /ranking", bookHandler.Placeholder("Ranking"))

	return router
}
