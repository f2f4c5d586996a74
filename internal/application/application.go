package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/denshoproject/densho-elastictools/internal/cache"
	"github.com/denshoproject/densho-elastictools/internal/config"
	"github.com/denshoproject/densho-elastictools/internal/docstore"
	"github.com/denshoproject/densho-elastictools/internal/handler"
	"github.com/denshoproject/densho-elastictools/internal/router"
	"github.com/denshoproject/densho-elastictools/internal/service"
)

// API is the HTTP server application.
type API struct {
	cfg     *config.Config
	logger  *zap.Logger
	httpSrv *http.Server
	redis   *cache.Redis
}

// NewAPI wires config into a ready-to-run server. The cluster is probed at
// startup; an unreachable cluster is logged as critical but does not abort —
// the operator decides whether a degraded start is acceptable.
func NewAPI(cfg *config.Config, logger *zap.Logger) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	client, err := docstore.NewClient(
		cfg.Docstore.Host,
		cfg.Docstore.SSLCertfile,
		cfg.Docstore.Username,
		cfg.Docstore.Password,
	)
	if err != nil {
		return nil, fmt.Errorf("docstore client: %w", err)
	}
	ds := docstore.New(client, cfg.Docstore.IndexPrefix, logger)

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ds.StartTest(startCtx); err != nil {
		logger.Warn("continuing with unreachable cluster", zap.String("host", cfg.Docstore.Host))
	}

	mgr := docstore.NewManager(ds, logger)
	svc := service.NewSearchService(ds, cfg.ResultsPerPage, logger)

	var redis *cache.Redis
	var resultsCache *cache.ResultsCache
	if len(cfg.CacheAddrs) > 0 {
		redis, err = cache.NewRedis(cfg.CacheAddrs, "")
		if err != nil {
			return nil, fmt.Errorf("results cache: %w", err)
		}
		resultsCache = cache.New(redis, cfg.CacheTTL, logger)
		logger.Info("results cache enabled",
			zap.Strings("addrs", cfg.CacheAddrs),
			zap.Duration("ttl", cfg.CacheTTL),
		)
	}

	searchHandler := handler.NewSearchHandler(svc, mgr, resultsCache, logger)
	healthHandler := handler.NewHealthHandler(ds)

	httpSrv := &http.Server{
		Addr:              cfg.AppHost + ":" + cfg.HTTPPort,
		Handler:           router.New(searchHandler, healthHandler),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:     cfg,
		logger:  logger,
		httpSrv: httpSrv,
		redis:   redis,
	}, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (a *API) Run(ctx context.Context) error {
	a.logger.Info("HTTP server listening",
		zap.String("addr", a.httpSrv.Addr),
		zap.String("swagger", "/swagger"),
		zap.String("search", "/api/search"),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if a.redis != nil {
		a.redis.Close()
	}
	return nil
}
