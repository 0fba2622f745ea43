package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-metrics-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
	"github.com/vfg2006/campaign-metrics-api/pkg/middleware"
	"github.com/vfg2006/campaign-metrics-api/pkg/utils"
)

// Respostas sem métricas. O dashboard mostra um aviso em vez de um erro.
const (
	StatusSelectDateRange = "select_date_range"
	StatusNoData          = "no_data"
)

type StatusResponse struct {
	Status string `json:"status"`
}

func ListSources(service campaigning.Campaigner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		projectIDs, allowed := visibleProjects(claims, r.URL.Query().Get("project_id"))
		if !allowed {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem acesso a este projeto", nil)
			return
		}

		// Cliente sem projetos vinculados não enxerga nenhuma planilha
		if projectIDs != nil && len(projectIDs) == 0 {
			writeJSON(w, []*domain.SheetSource{})
			return
		}

		sources, err := service.ListSources(r.Context(), projectIDs)
		if err != nil {
			logger.WithError(err).Error("sources: failed to list sources")
			writeCampaignError(w, err)
			return
		}

		logger.Debugf("sources: listed %d sources", len(sources))
		writeJSON(w, sources)
	})
}

func GetCampaignMetrics(service campaigning.Campaigner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		source, ok := authorizedSource(w, r, service)
		if !ok {
			return
		}

		filters, ok := parseFilters(w, r)
		if !ok {
			return
		}

		result, err := service.GetCampaignMetrics(r.Context(), source, filters)
		if err != nil {
			if errors.Is(err, campaigning.ErrDateRangeRequired) {
				writeJSON(w, StatusResponse{Status: StatusSelectDateRange})
				return
			}
			logger.WithError(err).WithField("source_id", source.ID).Error("campaign: failed to get campaign metrics")
			writeCampaignError(w, err)
			return
		}

		if result == nil {
			writeJSON(w, StatusResponse{Status: StatusNoData})
			return
		}

		logger.WithFields(log.Fields{
			"source_id": source.ID,
			"leads":     result.Leads,
			"ad_spend":  result.AdSpend,
		}).Info("campaign: metrics served")

		writeJSON(w, result)
	})
}

func GetAppointmentMetrics(service campaigning.Campaigner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		source, ok := authorizedSource(w, r, service)
		if !ok {
			return
		}

		filters, ok := parseFilters(w, r)
		if !ok {
			return
		}

		result, err := service.GetAppointmentMetrics(r.Context(), source, filters)
		if err != nil {
			if errors.Is(err, campaigning.ErrDateRangeRequired) {
				writeJSON(w, StatusResponse{Status: StatusSelectDateRange})
				return
			}
			logger.WithError(err).WithField("source_id", source.ID).Error("campaign: failed to get appointment metrics")
			writeCampaignError(w, err)
			return
		}

		if result == nil {
			writeJSON(w, StatusResponse{Status: StatusNoData})
			return
		}

		writeJSON(w, result)
	})
}

func ListSnapshots(service campaigning.Campaigner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		source, ok := authorizedSource(w, r, service)
		if !ok {
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit deve ser um número positivo", nil)
				return
			}
			limit = parsed
		}

		snapshots, err := service.ListSnapshots(r.Context(), source.ID, limit)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).WithField("source_id", source.ID).Error("campaign: failed to list snapshots")
			writeCampaignError(w, err)
			return
		}

		writeJSON(w, snapshots)
	})
}

// RefreshSource recalcula a planilha na hora, sem esperar a sincronização agendada.
// Sem datas na query recalcula a mesma janela da sincronização.
func RefreshSource(service campaigning.Campaigner, lookbackDays int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		source, ok := authorizedSource(w, r, service)
		if !ok {
			return
		}

		filters, ok := parseFilters(w, r)
		if !ok {
			return
		}

		dateRange := filters.DateRange
		if dateRange.From == nil && dateRange.To == nil {
			dateRange = domain.LookbackRange(time.Now(), lookbackDays)
		}

		result, err := service.RefreshSource(r.Context(), source, dateRange)
		if err != nil {
			if errors.Is(err, campaigning.ErrDateRangeRequired) {
				writeJSON(w, StatusResponse{Status: StatusSelectDateRange})
				return
			}
			log.ForContext(r.Context()).WithError(err).WithField("source_id", source.ID).Error("campaign: failed to refresh source")
			writeCampaignError(w, err)
			return
		}

		if result == nil {
			writeJSON(w, StatusResponse{Status: StatusNoData})
			return
		}

		writeJSON(w, result)
	})
}

// authorizedSource carrega a planilha da rota e confere o acesso do usuário ao projeto
func authorizedSource(w http.ResponseWriter, r *http.Request, service campaigning.Campaigner) (*domain.SheetSource, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
		return nil, false
	}

	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	source, err := service.GetSource(r.Context(), id)
	if err != nil {
		writeCampaignError(w, err)
		return nil, false
	}

	if !claims.CanAccessProject(source.ProjectID) {
		log.ForContext(r.Context()).WithFields(log.Fields{
			"source_id":  source.ID,
			"user_email": claims.Email,
		}).Warn("campaign: access denied to source")
		apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem acesso a esta planilha", nil)
		return nil, false
	}

	return source, true
}

// parseFilters lê start_date, end_date, entity e category da query.
// Datas ausentes seguem para o serviço, que decide pelo aviso de seleção de período.
func parseFilters(w http.ResponseWriter, r *http.Request) (domain.CampaignFilters, bool) {
	query := r.URL.Query()

	startDate, err := utils.ParseDate(query.Get("start_date"))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "start_date deve estar no formato "+time.DateOnly, nil)
		return domain.CampaignFilters{}, false
	}

	endDate, err := utils.ParseDate(query.Get("end_date"))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "end_date deve estar no formato "+time.DateOnly, nil)
		return domain.CampaignFilters{}, false
	}

	return domain.CampaignFilters{
		Entity:    strings.TrimSpace(query.Get("entity")),
		Category:  strings.TrimSpace(query.Get("category")),
		DateRange: domain.DateRange{From: startDate, To: endDate},
	}, true
}

// visibleProjects devolve nil para "todos os projetos"
func visibleProjects(claims *domain.Claims, requested string) ([]string, bool) {
	if requested != "" {
		if !claims.CanAccessProject(requested) {
			return nil, false
		}
		return []string{requested}, true
	}

	if claims.Role == domain.RoleAdmin || claims.Role == domain.RoleManager {
		return nil, true
	}

	projects := make([]string, 0, len(claims.ProjectIDs))
	projects = append(projects, claims.ProjectIDs...)
	return projects, true
}

func writeCampaignError(w http.ResponseWriter, err error) {
	var campaignErr *campaigning.CampaignError
	if errors.As(err, &campaignErr) && campaignErr.Code != "" {
		apiErrors.WriteError(w, campaignErr.Code, campaignErr.Error(), nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao processar a requisição", nil)
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.L.WithError(err).Error("http: failed to encode response")
	}
}
