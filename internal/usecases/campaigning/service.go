package campaigning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/campaign-metrics-api/infrastructure/integrator/sheets"
	sheetsdomain "github.com/vfg2006/campaign-metrics-api/infrastructure/integrator/sheets/domain"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/repository"
	"github.com/vfg2006/campaign-metrics-api/internal/config"
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/internal/usecases/aggregating"
	"github.com/vfg2006/campaign-metrics-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-metrics-api/pkg/cache"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
	"github.com/vfg2006/campaign-metrics-api/pkg/metrics"
)

const (
	transformCampaign     = "campaign"
	transformAppointments = "appointments"
)

type Service struct {
	cfg          *config.Config
	sheets       sheets.Integrator
	sourceRepo   repository.SheetSourceRepository
	snapshotRepo repository.MetricsSnapshotRepository
	tabCache     cache.Cache[[]domain.Tab]
	resultCache  cache.Cache[*domain.CampaignMetrics]
	options      aggregating.Options
}

var _ Campaigner = (*Service)(nil)

// NewService cria o serviço de métricas. Os caches são compartilhados com o
// gerenciador de limpeza criado no main.
func NewService(
	cfg *config.Config,
	integrator sheets.Integrator,
	sourceRepo repository.SheetSourceRepository,
	snapshotRepo repository.MetricsSnapshotRepository,
	tabCache cache.Cache[[]domain.Tab],
	resultCache cache.Cache[*domain.CampaignMetrics],
) *Service {
	options := aggregating.DefaultOptions()
	options.Assumptions = cfg.Campaign.Assumptions()
	options.DisableMagnitudeFallback = cfg.Campaign.DisableMagnitudeFallback

	return &Service{
		cfg:          cfg,
		sheets:       integrator,
		sourceRepo:   sourceRepo,
		snapshotRepo: snapshotRepo,
		tabCache:     tabCache,
		resultCache:  resultCache,
		options:      options,
	}
}

func (s *Service) ListSources(ctx context.Context, projectIDs []string) ([]*domain.SheetSource, error) {
	sources, err := s.sourceRepo.List(ctx, projectIDs)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("campaign: failed to list sources")
		return nil, NewCampaignError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar planilhas no banco de dados")
	}
	return sources, nil
}

func (s *Service) GetSource(ctx context.Context, sourceID string) (*domain.SheetSource, error) {
	if strings.TrimSpace(sourceID) == "" {
		return nil, NewCampaignError(ErrSourceIDRequired, apiErrors.ErrMissingRequiredData, "")
	}

	source, err := s.sourceRepo.GetByID(ctx, sourceID)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("source_id", sourceID).Error("campaign: failed to get source")
		return nil, NewCampaignErrorWithSource(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, sourceID, "Erro ao buscar planilha no banco de dados")
	}
	if source == nil {
		return nil, NewCampaignErrorWithSource(ErrSourceNotFound, apiErrors.ErrSourceNotFound, sourceID, "")
	}

	return source, nil
}

// GetCampaignMetrics exige o intervalo de datas completo antes de qualquer leitura.
// Resultados iguais para a mesma combinação de filtros vêm do cache.
func (s *Service) GetCampaignMetrics(ctx context.Context, source *domain.SheetSource, filters domain.CampaignFilters) (*domain.CampaignMetrics, error) {
	if err := validateDateRange(filters.DateRange); err != nil {
		return nil, err
	}
	if err := checkSource(source); err != nil {
		return nil, err
	}

	filters = s.normalizeFilters(source, filters)
	key := fingerprint(source.ID, filters)

	if cached, ok := s.resultCache.Get(key); ok {
		log.ForContext(ctx).WithField("source_id", source.ID).Debug("campaign: serving cached metrics")
		result := *cached
		return &result, nil
	}

	result, err := s.compute(ctx, source, filters)
	if err != nil || result == nil {
		return nil, err
	}

	if err := s.saveSnapshot(ctx, source, filters, result); err != nil {
		// A resposta não depende do histórico; falha de gravação só é registrada
		log.ForContext(ctx).WithError(err).WithField("source_id", source.ID).Warn("campaign: failed to save snapshot")
	}

	s.resultCache.Set(key, result)

	copied := *result
	return &copied, nil
}

func (s *Service) GetAppointmentMetrics(ctx context.Context, source *domain.SheetSource, filters domain.CampaignFilters) (*domain.FullDataMetrics, error) {
	if err := validateDateRange(filters.DateRange); err != nil {
		return nil, err
	}
	if err := checkSource(source); err != nil {
		return nil, err
	}

	filters = s.normalizeFilters(source, filters)

	tabs, err := s.loadTabs(ctx, source)
	if err != nil {
		return nil, err
	}

	result := aggregating.AggregateAppointments(tabs, filters, s.options.Assumptions)
	if result == nil {
		metrics.Transforms.WithLabelValues(transformAppointments, metrics.StatusNoData).Inc()
		return nil, nil
	}

	metrics.Transforms.WithLabelValues(transformAppointments, metrics.StatusSuccess).Inc()
	return result, nil
}

func (s *Service) ListSnapshots(ctx context.Context, sourceID string, limit int) ([]*domain.MetricsSnapshot, error) {
	snapshots, err := s.snapshotRepo.ListBySource(ctx, sourceID, limit)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("source_id", sourceID).Error("campaign: failed to list snapshots")
		return nil, NewCampaignErrorWithSource(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, sourceID, "Falha ao listar histórico de métricas")
	}
	return snapshots, nil
}

// RefreshSource é usado pela sincronização agendada e pelos eventos de atualização.
// Recalcula com a entidade padrão da planilha e sem filtro de categoria.
func (s *Service) RefreshSource(ctx context.Context, source *domain.SheetSource, dateRange domain.DateRange) (*domain.CampaignMetrics, error) {
	if err := validateDateRange(dateRange); err != nil {
		return nil, err
	}
	if err := checkSource(source); err != nil {
		return nil, err
	}

	s.invalidate(source)

	filters := s.normalizeFilters(source, domain.CampaignFilters{DateRange: dateRange})
	result, err := s.compute(ctx, source, filters)
	if err != nil || result == nil {
		return nil, err
	}

	if err := s.saveSnapshot(ctx, source, filters, result); err != nil {
		log.ForContext(ctx).WithError(err).WithField("source_id", source.ID).Error("campaign: failed to save snapshot")
		return nil, NewCampaignErrorWithSource(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, source.ID, "Falha ao gravar snapshot de métricas")
	}

	s.resultCache.Set(fingerprint(source.ID, filters), result)

	copied := *result
	return &copied, nil
}

func (s *Service) compute(ctx context.Context, source *domain.SheetSource, filters domain.CampaignFilters) (*domain.CampaignMetrics, error) {
	tabs, err := s.loadTabs(ctx, source)
	if err != nil {
		return nil, err
	}

	result := aggregating.TransformMultiSheetCampaignData(tabs, filters, s.options)
	if result == nil {
		metrics.Transforms.WithLabelValues(transformCampaign, metrics.StatusNoData).Inc()
		log.ForContext(ctx).WithFields(log.Fields{
			"source_id": source.ID,
			"tabs":      len(tabs),
		}).Info("campaign: no rows matched filters")
		return nil, nil
	}

	metrics.Transforms.WithLabelValues(transformCampaign, metrics.StatusSuccess).Inc()

	previous, err := s.snapshotRepo.GetPrevious(ctx, source.ID, filters.NormalizedEntity(), snapshotCategory(filters), *filters.DateRange.From)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("source_id", source.ID).Warn("campaign: failed to load previous snapshot, trend set to stable")
	} else if previous != nil {
		result.Trend = aggregating.CompareTrend(result, previous.Metrics)
	}

	return result, nil
}

func (s *Service) loadTabs(ctx context.Context, source *domain.SheetSource) ([]domain.Tab, error) {
	if tabs, ok := s.tabCache.Get(source.SpreadsheetID); ok {
		metrics.TabCacheLookups.WithLabelValues("hit").Inc()
		return tabs, nil
	}
	metrics.TabCacheLookups.WithLabelValues("miss").Inc()

	tabs, err := s.sheets.FetchTabs(ctx, source.SpreadsheetID)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithFields(log.Fields{
			"source_id":      source.ID,
			"spreadsheet_id": source.SpreadsheetID,
		}).Error("campaign: failed to fetch spreadsheet")

		details := "Falha ao ler a planilha no Google Sheets"
		if sheetsdomain.IsNotFound(err) || sheetsdomain.IsPermissionDenied(err) {
			details = "Planilha removida ou não compartilhada com a conta de serviço"
		}
		campaignErr := NewCampaignErrorWithSource(ErrSheetFetch, apiErrors.ErrExternalService, source.ID, details)
		campaignErr.Cause = err
		return nil, campaignErr
	}

	s.tabCache.Set(source.SpreadsheetID, tabs)
	return tabs, nil
}

func (s *Service) saveSnapshot(ctx context.Context, source *domain.SheetSource, filters domain.CampaignFilters, result *domain.CampaignMetrics) error {
	snapshot := &domain.MetricsSnapshot{
		SourceID: source.ID,
		Entity:   filters.NormalizedEntity(),
		Category: snapshotCategory(filters),
		DateFrom: *filters.DateRange.From,
		DateTo:   *filters.DateRange.To,
		Metrics:  result,
	}
	return s.snapshotRepo.SaveOrUpdate(ctx, snapshot)
}

func (s *Service) invalidate(source *domain.SheetSource) {
	s.tabCache.Delete(source.SpreadsheetID)
	s.resultCache.DeletePrefix(source.ID + "|")
}

// normalizeFilters aplica a entidade da planilha (ou a padrão da configuração) e a categoria ALL
func (s *Service) normalizeFilters(source *domain.SheetSource, filters domain.CampaignFilters) domain.CampaignFilters {
	filters.Entity = strings.TrimSpace(filters.Entity)
	if filters.Entity == "" {
		filters.Entity = source.Entity
	}
	if filters.Entity == "" {
		filters.Entity = s.cfg.Campaign.DefaultEntity
	}
	if strings.TrimSpace(filters.Category) == "" {
		filters.Category = domain.CategoryAll
	}
	return filters
}

func validateDateRange(dateRange domain.DateRange) error {
	if !dateRange.IsComplete() {
		return ErrDateRangeRequired
	}
	if dateRange.From.After(*dateRange.To) {
		return NewCampaignError(ErrInvalidDateRange, apiErrors.ErrInvalidDateRange,
			fmt.Sprintf("%s > %s", dateRange.From.Format(time.DateOnly), dateRange.To.Format(time.DateOnly)))
	}
	return nil
}

func checkSource(source *domain.SheetSource) error {
	if source == nil {
		return NewCampaignError(ErrSourceNotFound, apiErrors.ErrSourceNotFound, "")
	}
	if !source.Active {
		return NewCampaignErrorWithSource(ErrSourceInactive, apiErrors.ErrSourceInactive, source.ID, "")
	}
	return nil
}

func snapshotCategory(filters domain.CampaignFilters) string {
	if category := filters.NormalizedCategory(); category != "" {
		return category
	}
	return domain.CategoryAll
}

// fingerprint identifica a combinação de planilha e filtros de uma requisição
func fingerprint(sourceID string, filters domain.CampaignFilters) string {
	return strings.Join([]string{
		sourceID,
		filters.NormalizedEntity(),
		snapshotCategory(filters),
		filters.DateRange.From.Format(time.DateOnly),
		filters.DateRange.To.Format(time.DateOnly),
	}, "|")
}
