package aggregating

import (
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
)

// TransformMultiSheetCampaignData agrega todas as abas com os mesmos filtros
// e deriva as métricas finais. Retorna nil quando nenhuma linha casou.
// Não guarda estado entre chamadas: a mesma entrada gera sempre a mesma saída.
func TransformMultiSheetCampaignData(tabs []domain.Tab, filters domain.CampaignFilters, opts Options) *domain.CampaignMetrics {
	if len(tabs) == 0 {
		return nil
	}

	opts = opts.withDefaults()

	var total domain.AggregateResult
	for _, tab := range tabs {
		result := AggregateTab(tab, filters, opts)

		log.L.WithFields(log.Fields{
			"tab":            tab.Name,
			"rows":           len(tab.Rows),
			"rows_processed": result.RowsProcessed,
			"leads":          result.Leads,
			"ad_spend":       result.AdSpend,
		}).Debug("aggregating: tab processed")

		total.Merge(result)
	}

	metrics := Derive(total, opts.Assumptions)
	if metrics == nil {
		log.L.WithFields(log.Fields{
			"tabs":     len(tabs),
			"entity":   filters.Entity,
			"category": filters.Category,
		}).Debug("aggregating: no rows matched filters")
	}

	return metrics
}
