package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/urfave/negroni"

	"github.com/texuf/towns-utils/cache"
	"github.com/texuf/towns-utils/handlers/api"
	"github.com/texuf/towns-utils/handlers/middleware"
	"github.com/texuf/towns-utils/metrics"
	"github.com/texuf/towns-utils/services"
	"github.com/texuf/towns-utils/types"
	"github.com/texuf/towns-utils/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the operator report over http",
	Long:  "Run an http api serving the cached operator report and network apy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command) error {
	cfg, logWriter, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logWriter.Dispose()

	ctx, cancel := utils.WithInterrupt(cmd.Context())
	defer cancel()

	logger.WithFields(logrus.Fields{
		"version":     utils.BuildVersion,
		"release":     utils.BuildRelease,
		"environment": cfg.Environment,
	}).Printf("starting")

	service, err := newOperatorService(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer service.Close()

	if err := service.VerifyChains(ctx); err != nil {
		logger.WithError(err).Warn("could not verify chain ids")
	}

	reportCache, err := cache.NewTieredCache(ctx, cfg.Api.LocalCacheSize, cfg.Api.RedisCacheAddr, cfg.Api.RedisCachePrefix, logger)
	if err != nil {
		return err
	}
	service.EnableReportCache(reportCache, cfg.Api.ReportCacheTtl)

	if cfg.Metrics.Enabled {
		if err := metrics.StartMetricsServer(ctx, logger, cfg.Metrics.Host, cfg.Metrics.Port); err != nil {
			return err
		}
	}

	var rateLimiter *services.CallRateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = services.NewCallRateLimiter(ctx, cfg.RateLimit.ProxyCount, cfg.RateLimit.Rate, cfg.RateLimit.Burst)
	}

	webserver := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      newRouter(cfg, service, rateLimiter, logger),
		WriteTimeout: cfg.Server.HttpWriteTimeout,
		ReadTimeout:  cfg.Server.HttpReadTimeout,
		IdleTimeout:  cfg.Server.HttpIdleTimeout,
	}

	listener, err := net.Listen("tcp", webserver.Addr)
	if err != nil {
		return err
	}

	go func() {
		defer utils.HandleSubroutinePanic("webserver")

		logger.Printf("http server listening on %v", webserver.Addr)
		if err := webserver.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("error serving frontend")
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return webserver.Shutdown(shutdownCtx)
}

func newRouter(cfg *types.Config, provider api.ReportProvider, rateLimiter *services.CallRateLimiter, logger logrus.FieldLogger) http.Handler {
	router := mux.NewRouter()

	api.NewApiHandler(provider, rateLimiter, logger).RegisterRoutes(router)

	if cfg.Metrics.Enabled && cfg.Metrics.Public {
		router.Handle("/metrics", metrics.GetMetricsHandler())
	}

	n := negroni.New()
	n.Use(negroni.NewRecovery())
	n.UseHandler(middleware.CorsMiddleware(cfg.Api.CorsOrigins)(router))

	return n
}
