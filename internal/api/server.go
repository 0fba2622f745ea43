package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/vfg2006/campaign-metrics-api/internal/api/handler"
	"github.com/vfg2006/campaign-metrics-api/internal/api/handler/router"
	"github.com/vfg2006/campaign-metrics-api/internal/config"
	"github.com/vfg2006/campaign-metrics-api/internal/usecases/authenticating"
	"github.com/vfg2006/campaign-metrics-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
	"github.com/vfg2006/campaign-metrics-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

// Dependencies agrupa os serviços expostos pela API
type Dependencies struct {
	Campaigner    campaigning.Campaigner
	Authenticator authenticating.Authenticator
	SheetSync     handler.SyncJob
	DB            handler.Pinger
}

func New(cfg *config.Config, deps Dependencies) (*Server, error) {
	if deps.Campaigner == nil || deps.Authenticator == nil {
		return nil, errors.New("api: campaigner and authenticator are required")
	}

	routes := []router.ConfigRouter{
		router.WithRoutes(handler.Healthcheck(deps.DB)...),
		router.WithRoutes(handler.Sources(deps.Campaigner, cfg.SheetSync.LookbackDays)...),
		router.WithRoutes(handler.CronJobs(handler.CronJobServices{SheetSync: deps.SheetSync})...),
	}

	publicPaths := []string{"/healthcheck"}
	if cfg.Metrics.Enabled {
		routes = append(routes, router.WithRoutes(handler.Metrics(cfg.Metrics.Path)...))
		publicPaths = append(publicPaths, cfg.Metrics.Path)
	}

	rt := router.New(routes...)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.Server.AllowedOrigins),
		middleware.AuthMiddleware(deps.Authenticator, publicPaths...),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// Handler expõe a cadeia completa de middlewares e rotas
func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		log.L.WithField("address", s.httpServer.Addr).Info("server: listening")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.L.WithError(err).Error("server: listen failed")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case <-done:
		log.L.Info("server: interrupt signal received")
	case <-ctx.Done():
		log.L.Info("server: application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.L.Infof("server: graceful shutdown (timeout %s)", shutdownTimeout)

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.L.WithError(err).Error("server: shutdown failed")
		return err
	}

	log.L.Info("server: stopped")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
