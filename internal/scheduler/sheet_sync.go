package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/repository"
	"github.com/vfg2006/campaign-metrics-api/internal/config"
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
	"github.com/vfg2006/campaign-metrics-api/pkg/metrics"
)

const (
	jobSheetSync = "sheets"
	jobRetention = "retention"
)

// SheetSyncConfig representa a configuração do agendador de planilhas
type SheetSyncConfig struct {
	CronSchedule      string
	LookbackDays      int
	MaxConcurrentJobs int
	RetentionDays     int
	SyncEnabled       bool
}

// SheetSyncService recalcula periodicamente as métricas de todas as planilhas ativas
// e grava os snapshots do período configurado
type SheetSyncService struct {
	scheduler    *gocron.Scheduler
	config       SheetSyncConfig
	sourceRepo   repository.SheetSourceRepository
	snapshotRepo repository.MetricsSnapshotRepository
	campaigner   campaigning.Campaigner
	now          func() time.Time

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncSucceeded   int
	lastSyncFailed      int
}

func NewSheetSyncService(
	sourceRepo repository.SheetSourceRepository,
	snapshotRepo repository.MetricsSnapshotRepository,
	campaigner campaigning.Campaigner,
	appConfig *config.Config,
) *SheetSyncService {
	syncConfig := SheetSyncConfig{
		CronSchedule:      appConfig.SheetSync.CronSchedule,
		LookbackDays:      appConfig.SheetSync.LookbackDays,
		MaxConcurrentJobs: appConfig.SheetSync.MaxConcurrentJobs,
		RetentionDays:     appConfig.SheetSync.RetentionDays,
		SyncEnabled:       appConfig.SheetSync.Enabled,
	}
	if syncConfig.MaxConcurrentJobs <= 0 {
		syncConfig.MaxConcurrentJobs = 1
	}

	log.L.WithFields(log.Fields{
		"job":                 jobSheetSync,
		"cron_schedule":       syncConfig.CronSchedule,
		"lookback_days":       syncConfig.LookbackDays,
		"max_concurrent_jobs": syncConfig.MaxConcurrentJobs,
		"retention_days":      syncConfig.RetentionDays,
		"sync_enabled":        syncConfig.SyncEnabled,
	}).Info("sync: scheduler configuration loaded")

	return &SheetSyncService{
		scheduler:    gocron.NewScheduler(time.Local),
		config:       syncConfig,
		sourceRepo:   sourceRepo,
		snapshotRepo: snapshotRepo,
		campaigner:   campaigner,
		now:          time.Now,
	}
}

// Start agenda a sincronização. Com a sincronização desabilitada só o disparo manual funciona.
func (s *SheetSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		log.L.WithField("job", jobSheetSync).Info("sync: scheduled sync disabled by configuration")
		return nil
	}

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllSources(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de planilhas: %w", err)
	}

	s.scheduler.StartAsync()
	log.L.WithField("job", jobSheetSync).Infof("sync: scheduler started with cron %q", s.config.CronSchedule)

	go func() {
		<-ctx.Done()
		log.L.WithField("job", jobSheetSync).Info("sync: stopping scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync dispara a sincronização em segundo plano.
// Retorna false quando já existe uma execução em andamento.
func (s *SheetSyncService) TriggerManualSync(ctx context.Context) bool {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()
	if running {
		return false
	}

	log.ForContext(ctx).WithField("job", jobSheetSync).Info("sync: manual sync triggered")
	// O contexto da requisição termina antes da sincronização
	go s.syncAllSources(context.WithoutCancel(ctx))
	return true
}

// GetStatus retorna o estado da última execução
func (s *SheetSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"enabled":             s.config.SyncEnabled,
		"running":             s.syncRunning,
		"cron_schedule":       s.config.CronSchedule,
		"lookback_days":       s.config.LookbackDays,
		"max_concurrent_jobs": s.config.MaxConcurrentJobs,
		"last_succeeded":      s.lastSyncSucceeded,
		"last_failed":         s.lastSyncFailed,
	}
	if !s.lastSyncStartedAt.IsZero() {
		status["last_started_at"] = s.lastSyncStartedAt.Format(time.RFC3339)
	}
	if !s.lastSyncCompletedAt.IsZero() {
		status["last_completed_at"] = s.lastSyncCompletedAt.Format(time.RFC3339)
	}
	if s.config.SyncEnabled {
		if _, next := s.scheduler.NextRun(); !next.IsZero() {
			status["next_run_at"] = next.Format(time.RFC3339)
		}
	}

	return status
}

func (s *SheetSyncService) syncAllSources(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		log.ForContext(ctx).WithField("job", jobSheetSync).Info("sync: already running, skipping")
		metrics.SyncRuns.WithLabelValues(jobSheetSync, metrics.StatusSkipped).Inc()
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	succeeded, failed := 0, 0
	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = s.now()
		s.lastSyncSucceeded = succeeded
		s.lastSyncFailed = failed
		s.syncMutex.Unlock()
	}()

	logger := log.ForContext(ctx).WithField("job", jobSheetSync)

	sources, err := s.sourceRepo.ListActive(ctx)
	if err != nil {
		logger.WithError(err).Error("sync: failed to list active sources")
		metrics.SyncRuns.WithLabelValues(jobSheetSync, metrics.StatusError).Inc()
		return
	}
	if len(sources) == 0 {
		logger.Info("sync: no active sources")
		metrics.SyncRuns.WithLabelValues(jobSheetSync, metrics.StatusNoData).Inc()
		return
	}

	dateRange := s.lookbackRange()
	logger.WithFields(log.Fields{
		"sources":    len(sources),
		"start_date": dateRange.From.Format(time.DateOnly),
		"end_date":   dateRange.To.Format(time.DateOnly),
	}).Info("sync: refreshing sources")

	succeeded, failed = s.refreshSources(ctx, sources, dateRange)

	status := metrics.StatusSuccess
	if failed > 0 {
		status = metrics.StatusError
	}
	metrics.SyncRuns.WithLabelValues(jobSheetSync, status).Inc()

	s.cleanupSnapshots(ctx)

	logger.WithFields(log.Fields{
		"succeeded":   succeeded,
		"failed":      failed,
		"duration_ms": s.now().Sub(s.lastSyncStartedAt).Milliseconds(),
	}).Info("sync: finished")
}

// refreshSources processa as planilhas com no máximo MaxConcurrentJobs simultâneas
func (s *SheetSyncService) refreshSources(ctx context.Context, sources []*domain.SheetSource, dateRange domain.DateRange) (int, int) {
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, failed := 0, 0

	for _, source := range sources {
		if source.SpreadsheetID == "" {
			log.ForContext(ctx).WithField("source_id", source.ID).Warn("sync: source without spreadsheet id, skipping")
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(source *domain.SheetSource) {
			defer wg.Done()
			defer func() { <-semaphore }()

			err := s.refreshSource(ctx, source, dateRange)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				return
			}
			succeeded++
		}(source)
	}

	wg.Wait()
	return succeeded, failed
}

func (s *SheetSyncService) refreshSource(ctx context.Context, source *domain.SheetSource, dateRange domain.DateRange) error {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"job":            jobSheetSync,
		"source_id":      source.ID,
		"spreadsheet_id": source.SpreadsheetID,
	})

	result, err := s.campaigner.RefreshSource(ctx, source, dateRange)
	if err != nil {
		var campaignErr *campaigning.CampaignError
		if errors.As(err, &campaignErr) {
			logger = logger.WithField("error_code", campaignErr.Code)
		}
		logger.WithError(err).Error("sync: failed to refresh source")
		return err
	}

	if result == nil {
		logger.Debug("sync: source has no rows in period")
		return nil
	}

	logger.WithFields(log.Fields{
		"leads":    result.Leads,
		"ad_spend": result.AdSpend,
	}).Debug("sync: source refreshed")
	return nil
}

// cleanupSnapshots remove snapshots fora da janela de retenção
func (s *SheetSyncService) cleanupSnapshots(ctx context.Context) {
	if s.config.RetentionDays <= 0 {
		return
	}

	deleted, err := s.snapshotRepo.DeleteOlderThan(ctx, s.config.RetentionDays)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("job", jobRetention).Error("sync: failed to delete old snapshots")
		metrics.SyncRuns.WithLabelValues(jobRetention, metrics.StatusError).Inc()
		return
	}

	metrics.SyncRuns.WithLabelValues(jobRetention, metrics.StatusSuccess).Inc()
	if deleted > 0 {
		log.ForContext(ctx).WithField("job", jobRetention).Infof("sync: deleted %d snapshots older than %d days", deleted, s.config.RetentionDays)
	}
}

// lookbackRange vai de LookbackDays atrás até ontem
func (s *SheetSyncService) lookbackRange() domain.DateRange {
	return domain.LookbackRange(s.now(), s.config.LookbackDays)
}
