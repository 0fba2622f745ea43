package aggregating

import (
	"math"

	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/pkg/utils"
)

// Derive transforma as somas finais em métricas de campanha.
// Retorna nil quando nenhuma linha foi aproveitada.
func Derive(agg domain.AggregateResult, assumptions domain.Assumptions) *domain.CampaignMetrics {
	if agg.RowsProcessed == 0 {
		return nil
	}

	appointments := EstimateAppointments(agg.Leads, assumptions.LeadToAppointmentRate)
	procedures := EstimateProcedures(appointments, assumptions.AppointmentToProcedureRate)

	showRate := assumptions.FallbackShowRate
	if procedures > 0 {
		showRate = float64(procedures) / float64(appointments) * 100
	}

	var cpa, cpp float64
	if appointments > 0 {
		cpa = agg.AdSpend / float64(appointments)
	}
	if procedures > 0 {
		cpp = agg.AdSpend / float64(procedures)
	}

	revenue := float64(procedures) * assumptions.RevenuePerProcedure

	var roas float64
	if agg.AdSpend > 0 {
		roas = revenue / agg.AdSpend
	}

	return &domain.CampaignMetrics{
		AdSpend:            utils.RoundWithTwoDecimalPlace(agg.AdSpend),
		Leads:              int(math.Round(agg.Leads)),
		Appointments:       appointments,
		Procedures:         procedures,
		ShowRate:           utils.RoundWithTwoDecimalPlace(showRate),
		CostPerLead:        utils.RoundWithTwoDecimalPlace(CostPerLead(agg, assumptions.FallbackCPL)),
		CostPerAppointment: utils.RoundWithTwoDecimalPlace(cpa),
		CostPerProcedure:   utils.RoundWithTwoDecimalPlace(cpp),
		Revenue:            utils.RoundWithTwoDecimalPlace(revenue),
		ROAS:               utils.RoundWithTwoDecimalPlace(roas),
		RowsMatched:        agg.RowsProcessed,
		Trend:              domain.TrendStable,
	}
}

// CostPerLead segue a cadeia: média dos CPLs informados, depois
// investimento/leads e por fim o valor fixo de fallback.
func CostPerLead(agg domain.AggregateResult, fallback float64) float64 {
	if agg.CPLCount > 0 {
		return agg.CPLSum / float64(agg.CPLCount)
	}
	if agg.AdSpend > 0 && agg.Leads > 0 {
		return agg.AdSpend / agg.Leads
	}
	return fallback
}

func EstimateAppointments(leads, rate float64) int {
	if leads <= 0 {
		return 0
	}
	return int(math.Round(leads * rate))
}

func EstimateProcedures(appointments int, rate float64) int {
	if appointments <= 0 {
		return 0
	}
	return int(math.Round(float64(appointments) * rate))
}

// TrendThreshold é a variação relativa de leads abaixo da qual o período é considerado estável
const TrendThreshold = 0.05

// CompareTrend compara os leads do período atual com o período anterior
func CompareTrend(current, previous *domain.CampaignMetrics) domain.TrendDirection {
	if current == nil || previous == nil || previous.Leads <= 0 {
		return domain.TrendStable
	}

	change := float64(current.Leads-previous.Leads) / float64(previous.Leads)
	switch {
	case change > TrendThreshold:
		return domain.TrendUp
	case change < -TrendThreshold:
		return domain.TrendDown
	default:
		return domain.TrendStable
	}
}
