package campaigning

//go:generate mockgen -source=interfaces.go -destination=mocks/campaigner_mock.go -package=mocks

import (
	"context"

	"github.com/vfg2006/campaign-metrics-api/internal/domain"
)

// Campaigner expõe as métricas calculadas a partir das planilhas cadastradas
type Campaigner interface {
	// ListSources lista as planilhas dos projetos informados. Sem projetos lista todas.
	ListSources(ctx context.Context, projectIDs []string) ([]*domain.SheetSource, error)

	// GetSource busca uma planilha cadastrada
	GetSource(ctx context.Context, sourceID string) (*domain.SheetSource, error)

	// GetCampaignMetrics agrega as abas de campanha. Retorna nil quando nada casou com os filtros.
	GetCampaignMetrics(ctx context.Context, source *domain.SheetSource, filters domain.CampaignFilters) (*domain.CampaignMetrics, error)

	// GetAppointmentMetrics agrega agendamentos, ligações e campanhas do projeto
	GetAppointmentMetrics(ctx context.Context, source *domain.SheetSource, filters domain.CampaignFilters) (*domain.FullDataMetrics, error)

	// ListSnapshots retorna o histórico de métricas gravadas para a planilha
	ListSnapshots(ctx context.Context, sourceID string, limit int) ([]*domain.MetricsSnapshot, error)

	// RefreshSource descarta o cache da planilha, recalcula e grava o snapshot do período
	RefreshSource(ctx context.Context, source *domain.SheetSource, dateRange domain.DateRange) (*domain.CampaignMetrics, error)
}
