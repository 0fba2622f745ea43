package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-metrics-api/internal/api/handler/router"
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-metrics-api/internal/usecases/campaigning/mocks"
	"github.com/vfg2006/campaign-metrics-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
	"github.com/vfg2006/campaign-metrics-api/pkg/middleware"
	"go.uber.org/mock/gomock"
)

const testLookbackDays = 7

var (
	adminClaims  = &domain.Claims{Email: "admin@agency.com", Role: domain.RoleAdmin}
	clientClaims = &domain.Claims{Email: "ana@clinic.com", Role: domain.RoleClient, ProjectIDs: []string{"p1"}}

	texasSource = &domain.SheetSource{ID: "src1", ProjectID: "p1", SpreadsheetID: "sheet-1", Entity: "Texas Vascular", Active: true}
	otherSource = &domain.SheetSource{ID: "src2", ProjectID: "p2", SpreadsheetID: "sheet-2", Active: true}
)

// serve monta o router com as rotas de planilhas e injeta o usuário como o AuthMiddleware faria
func serve(t *testing.T, service campaigning.Campaigner, claims *domain.Claims, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	log.SetupTestLogger()

	rt := router.New(router.WithRoutes(Sources(service, testLookbackDays)...))

	req := httptest.NewRequest(method, target, nil)
	if claims != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.ContextKeyUser, claims))
	}
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func date(s string) *time.Time {
	d, _ := time.Parse(time.DateOnly, s)
	return &d
}

func TestGetCampaignMetrics(t *testing.T) {
	t.Run("Retorna as métricas do período", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		want := domain.CampaignMetrics{
			AdSpend: 5000, Leads: 50, Appointments: 23, Procedures: 14,
			CostPerLead: 100, Trend: domain.TrendStable,
		}
		wantFilters := domain.CampaignFilters{
			Entity:    "Texas Vascular",
			Category:  "ALL",
			DateRange: domain.DateRange{From: date("2024-03-01"), To: date("2024-03-31")},
		}

		service.EXPECT().GetSource(gomock.Any(), "src1").Return(texasSource, nil)
		service.EXPECT().GetCampaignMetrics(gomock.Any(), texasSource, wantFilters).Return(&want, nil)

		rec := serve(t, service, clientClaims, http.MethodGet,
			"/v1/sources/src1/campaign-metrics?start_date=2024-03-01&end_date=2024-03-31&entity=Texas+Vascular&category=ALL")

		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[domain.CampaignMetrics](t, rec)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("métricas diferentes (-want +got):\n%s", diff)
		}
	})

	t.Run("Sem período responde select_date_range", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		service.EXPECT().GetSource(gomock.Any(), "src1").Return(texasSource, nil)
		service.EXPECT().GetCampaignMetrics(gomock.Any(), texasSource, gomock.Any()).Return(nil, campaigning.ErrDateRangeRequired)

		rec := serve(t, service, clientClaims, http.MethodGet, "/v1/sources/src1/campaign-metrics")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, StatusResponse{Status: StatusSelectDateRange}, decode[StatusResponse](t, rec))
	})

	t.Run("Nenhuma linha encontrada responde no_data", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		service.EXPECT().GetSource(gomock.Any(), "src1").Return(texasSource, nil)
		service.EXPECT().GetCampaignMetrics(gomock.Any(), texasSource, gomock.Any()).Return(nil, nil)

		rec := serve(t, service, adminClaims, http.MethodGet, "/v1/sources/src1/campaign-metrics?start_date=2024-03-01&end_date=2024-03-31")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, StatusResponse{Status: StatusNoData}, decode[StatusResponse](t, rec))
	})

	t.Run("Data mal formatada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		service.EXPECT().GetSource(gomock.Any(), "src1").Return(texasSource, nil)
		service.EXPECT().GetCampaignMetrics(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		rec := serve(t, service, adminClaims, http.MethodGet, "/v1/sources/src1/campaign-metrics?start_date=03/01/2024&end_date=2024-03-31")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidFormat, decode[apiErrors.APIError](t, rec).Code)
	})

	t.Run("Cliente sem acesso ao projeto", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		service.EXPECT().GetSource(gomock.Any(), "src2").Return(otherSource, nil)
		service.EXPECT().GetCampaignMetrics(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		rec := serve(t, service, clientClaims, http.MethodGet, "/v1/sources/src2/campaign-metrics?start_date=2024-03-01&end_date=2024-03-31")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Erros tipados viram o status correspondente", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{
				name:       "Falha no Google Sheets",
				err:        campaigning.NewCampaignErrorWithSource(campaigning.ErrSheetFetch, apiErrors.ErrExternalService, "src1", ""),
				wantStatus: http.StatusBadGateway,
				wantCode:   apiErrors.ErrExternalService,
			},
			{
				name:       "Período invertido",
				err:        campaigning.NewCampaignError(campaigning.ErrInvalidDateRange, apiErrors.ErrInvalidDateRange, ""),
				wantStatus: http.StatusBadRequest,
				wantCode:   apiErrors.ErrInvalidDateRange,
			},
			{
				name:       "Planilha desativada",
				err:        campaigning.NewCampaignErrorWithSource(campaigning.ErrSourceInactive, apiErrors.ErrSourceInactive, "src1", ""),
				wantStatus: http.StatusConflict,
				wantCode:   apiErrors.ErrSourceInactive,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ctrl := gomock.NewController(t)
				service := mocks.NewMockCampaigner(ctrl)

				service.EXPECT().GetSource(gomock.Any(), "src1").Return(texasSource, nil)
				service.EXPECT().GetCampaignMetrics(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tt.err)

				rec := serve(t, service, adminClaims, http.MethodGet, "/v1/sources/src1/campaign-metrics?start_date=2024-03-01&end_date=2024-03-31")

				assert.Equal(t, tt.wantStatus, rec.Code)
				assert.Equal(t, tt.wantCode, decode[apiErrors.APIError](t, rec).Code)
			})
		}
	})

	t.Run("Planilha inexistente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		service.EXPECT().GetSource(gomock.Any(), "missing").
			Return(nil, campaigning.NewCampaignErrorWithSource(campaigning.ErrSourceNotFound, apiErrors.ErrSourceNotFound, "missing", ""))

		rec := serve(t, service, adminClaims, http.MethodGet, "/v1/sources/missing/campaign-metrics")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetAppointmentMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockCampaigner(ctrl)

	want := domain.FullDataMetrics{
		ProjectStats: domain.ProjectStats{Bookings: 10, Shows: 7, NoShows: 3, ShowRate: 70},
		Trend:        []domain.TrendData{{Date: "2024-03-01", Bookings: 4}, {Date: "2024-03-02", Bookings: 6}},
	}

	service.EXPECT().GetSource(gomock.Any(), "src1").Return(texasSource, nil)
	service.EXPECT().GetAppointmentMetrics(gomock.Any(), texasSource, gomock.Any()).Return(&want, nil)

	rec := serve(t, service, clientClaims, http.MethodGet, "/v1/sources/src1/appointment-metrics?start_date=2024-03-01&end_date=2024-03-31")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[domain.FullDataMetrics](t, rec)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("métricas de agendamento diferentes (-want +got):\n%s", diff)
	}
}

func TestListSources(t *testing.T) {
	t.Run("Administrador lista todos os projetos", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		service.EXPECT().ListSources(gomock.Any(), nil).Return([]*domain.SheetSource{texasSource, otherSource}, nil)

		rec := serve(t, service, adminClaims, http.MethodGet, "/v1/sources")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]domain.SheetSource](t, rec), 2)
	})

	t.Run("Cliente lista apenas os próprios projetos", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		service.EXPECT().ListSources(gomock.Any(), []string{"p1"}).Return([]*domain.SheetSource{texasSource}, nil)

		rec := serve(t, service, clientClaims, http.MethodGet, "/v1/sources")

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Cliente sem projetos recebe lista vazia", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		service.EXPECT().ListSources(gomock.Any(), gomock.Any()).Times(0)

		rec := serve(t, service, &domain.Claims{Role: domain.RoleClient}, http.MethodGet, "/v1/sources")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]domain.SheetSource](t, rec))
	})

	t.Run("Filtro por projeto de outro cliente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		rec := serve(t, service, clientClaims, http.MethodGet, "/v1/sources?project_id=p2")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestListSnapshots(t *testing.T) {
	t.Run("Repassa o limite informado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		service.EXPECT().GetSource(gomock.Any(), "src1").Return(texasSource, nil)
		service.EXPECT().ListSnapshots(gomock.Any(), "src1", 5).Return([]*domain.MetricsSnapshot{{ID: "s1", SourceID: "src1"}}, nil)

		rec := serve(t, service, clientClaims, http.MethodGet, "/v1/sources/src1/snapshots?limit=5")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]domain.MetricsSnapshot](t, rec), 1)
	})

	t.Run("Limite inválido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		service.EXPECT().GetSource(gomock.Any(), "src1").Return(texasSource, nil)

		rec := serve(t, service, clientClaims, http.MethodGet, "/v1/sources/src1/snapshots?limit=abc")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRefreshSource(t *testing.T) {
	t.Run("Cliente não pode forçar recálculo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		rec := serve(t, service, clientClaims, http.MethodPost, "/v1/sources/src1/refresh?start_date=2024-03-01&end_date=2024-03-31")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Administrador recalcula o período", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		wantRange := domain.DateRange{From: date("2024-03-01"), To: date("2024-03-31")}
		service.EXPECT().GetSource(gomock.Any(), "src1").Return(texasSource, nil)
		service.EXPECT().RefreshSource(gomock.Any(), texasSource, wantRange).Return(&domain.CampaignMetrics{Leads: 50}, nil)

		rec := serve(t, service, adminClaims, http.MethodPost, "/v1/sources/src1/refresh?start_date=2024-03-01&end_date=2024-03-31")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 50, decode[domain.CampaignMetrics](t, rec).Leads)
	})

	t.Run("Sem datas recalcula a janela da sincronização", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		want := domain.LookbackRange(time.Now(), testLookbackDays)
		service.EXPECT().GetSource(gomock.Any(), "src1").Return(texasSource, nil)
		service.EXPECT().RefreshSource(gomock.Any(), texasSource, gomock.Any()).
			DoAndReturn(func(ctx context.Context, source *domain.SheetSource, dateRange domain.DateRange) (*domain.CampaignMetrics, error) {
				require.True(t, dateRange.IsComplete())
				assert.Equal(t, want.From.Format(time.DateOnly), dateRange.From.Format(time.DateOnly))
				assert.Equal(t, want.To.Format(time.DateOnly), dateRange.To.Format(time.DateOnly))
				return &domain.CampaignMetrics{Leads: 12}, nil
			})

		rec := serve(t, service, adminClaims, http.MethodPost, "/v1/sources/src1/refresh")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 12, decode[domain.CampaignMetrics](t, rec).Leads)
	})

	t.Run("Período incompleto pede as duas datas", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockCampaigner(ctrl)

		service.EXPECT().GetSource(gomock.Any(), "src1").Return(texasSource, nil)
		service.EXPECT().RefreshSource(gomock.Any(), texasSource, domain.DateRange{From: date("2024-03-01")}).
			Return(nil, campaigning.ErrDateRangeRequired)

		rec := serve(t, service, adminClaims, http.MethodPost, "/v1/sources/src1/refresh?start_date=2024-03-01")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, StatusSelectDateRange, decode[StatusResponse](t, rec).Status)
	})
}

func TestRouterFallbacks(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockCampaigner(ctrl)

	rec := serve(t, service, adminClaims, http.MethodGet, "/v1/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.ErrRouteNotFound, decode[apiErrors.APIError](t, rec).Code)

	rec = serve(t, service, adminClaims, http.MethodDelete, "/v1/sources")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
