// Package main starts the risk explorer HTTP API.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielpatrickdp/risk-explorer/internal/api"
	"github.com/danielpatrickdp/risk-explorer/internal/compare"
	"github.com/danielpatrickdp/risk-explorer/internal/config"
	"github.com/danielpatrickdp/risk-explorer/internal/llm"
	"github.com/danielpatrickdp/risk-explorer/internal/metrics"
	"github.com/danielpatrickdp/risk-explorer/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// #region main
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	gen, closeGen, err := llm.NewGenerator(cfg)
	if errors.Is(err, llm.ErrMissingAPIKey) {
		// Serve anyway; /compare reports the missing key per request.
		logger.Warn("model backend unavailable", "backend", cfg.Backend, "error", err)
		gen = llm.Unavailable{Err: err}
	} else if err != nil {
		return err
	}
	defer closeGen()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := compare.NewService(gen, st, compare.Config{
		ModelA:       cfg.ModelA,
		ModelB:       cfg.ModelB,
		ModelTimeout: cfg.ModelTimeout,
		Attempts:     cfg.ModelAttempts,
	}).WithMetrics(metrics.NewRecorder(reg)).WithLogger(logger)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewHandlers(svc, logger), api.RouterConfig{
		AllowedOrigins: cfg.FrontendOrigins,
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "db", cfg.DBPath, "backend", cfg.Backend,
			"model_a", cfg.ModelA, "model_b", cfg.ModelB)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// #endregion run
