package main

import (
	"context"
	"errors"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/integrator/sheets"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/integrator/sheets/sheetsclient"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/repository"
	"github.com/vfg2006/campaign-metrics-api/internal/api"
	"github.com/vfg2006/campaign-metrics-api/internal/config"
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/internal/events"
	"github.com/vfg2006/campaign-metrics-api/internal/scheduler"
	"github.com/vfg2006/campaign-metrics-api/internal/usecases/authenticating"
	"github.com/vfg2006/campaign-metrics-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-metrics-api/pkg/cache"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
)

// Resultados calculados valem menos que as abas, que custam uma ida ao Google
const resultCacheDivisor = 2

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.SetLevel(cfg.App.LogLevel)
	logrus.Infof("config: log level set to %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	if cfg.Database.MigrateOnBoot {
		if err := postgres.RunMigrations(cfg.Database.DSN); err != nil {
			logrus.WithError(err).Fatal("database: migrations failed")
		}
	}

	sourceRepo := repository.NewSheetSourceRepository(pgConn)
	snapshotRepo := repository.NewMetricsSnapshotRepository(pgConn)

	sheetsClient, err := sheetsclient.NewClient(ctx, cfg.Sheets)
	if err != nil {
		logrus.WithError(err).Fatal("sheets: failed to create Google Sheets client")
	}
	sheetsIntegrator := sheets.New(cfg.Sheets, sheetsClient)

	tabCache := cache.NewLRUCache[[]domain.Tab](cfg.Sheets.CacheSize, cfg.Sheets.CacheTTL)
	resultCache := cache.NewLRUCache[*domain.CampaignMetrics](cfg.Sheets.CacheSize*4, cfg.Sheets.CacheTTL/resultCacheDivisor)

	cacheManager := cache.NewManager()
	cacheManager.Register(tabCache)
	cacheManager.Register(resultCache)
	cacheManager.StartCleanup(ctx, time.Minute)
	defer cacheManager.Stop()

	campaignService := campaigning.NewService(cfg, sheetsIntegrator, sourceRepo, snapshotRepo, tabCache, resultCache)
	authenticator := authenticating.NewService(cfg.Auth)

	sheetSyncService := scheduler.NewSheetSyncService(sourceRepo, snapshotRepo, campaignService, cfg)
	if err := sheetSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("sync: failed to start scheduler")
	}

	if cfg.Events.Enabled {
		eventsClient := events.NewClient(cfg.Events)
		eventsHandler := events.NewHandler(campaignService, sourceRepo, cfg.SheetSync.LookbackDays)

		go func() {
			if err := eventsClient.Consume(ctx, eventsHandler); err != nil && !errors.Is(err, context.Canceled) {
				logrus.WithError(err).Error("events: consumer stopped")
			}
		}()
		defer eventsClient.Close()
	}

	server, err := api.New(cfg, api.Dependencies{
		Campaigner:    campaignService,
		Authenticator: authenticator,
		SheetSync:     sheetSyncService,
		DB:            pgConn,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}

	// Encerra agendador, consumidor e limpeza de cache antes dos defers
	cancel()
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("database: failed to connect to PostgreSQL")
	}

	logrus.Info("database: PostgreSQL connection established")
	return conn
}
