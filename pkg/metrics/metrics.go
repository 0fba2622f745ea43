package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "campaign_metrics"

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusNoData  = "no_data"
	StatusSkipped = "skipped"
)

var (
	SheetFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sheet_fetches_total",
		Help:      "Leituras de planilhas no Google Sheets por resultado.",
	}, []string{"status"})

	SheetFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sheet_fetch_duration_seconds",
		Help:      "Duração da leitura completa de uma planilha.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8),
	})

	TabCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tab_cache_lookups_total",
		Help:      "Consultas ao cache de abas por resultado (hit ou miss).",
	}, []string{"result"})

	Transforms = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transforms_total",
		Help:      "Execuções do pipeline de agregação por tipo e resultado.",
	}, []string{"kind", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duração das requisições HTTP.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})

	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_runs_total",
		Help:      "Execuções da sincronização agendada por job e resultado.",
	}, []string{"job", "status"})

	EventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_consumed_total",
		Help:      "Mensagens de atualização de planilha consumidas por resultado.",
	}, []string{"status"})
)

// Handler expõe o registro padrão no formato do Prometheus
func Handler() http.Handler {
	return promhttp.Handler()
}
