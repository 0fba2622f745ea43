package sheets

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks

import (
	"context"
	"time"

	sheetsdomain "github.com/vfg2006/campaign-metrics-api/infrastructure/integrator/sheets/domain"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/integrator/sheets/sheetsclient"
	"github.com/vfg2006/campaign-metrics-api/internal/config"
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
	"github.com/vfg2006/campaign-metrics-api/pkg/metrics"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type Integrator interface {
	FetchTabs(ctx context.Context, spreadsheetID string) ([]domain.Tab, error)
}

type SheetsIntegrator struct {
	cfg    config.Sheets
	Client sheetsclient.Client
	group  singleflight.Group
}

var _ Integrator = (*SheetsIntegrator)(nil)

func New(cfg config.Sheets, client sheetsclient.Client) *SheetsIntegrator {
	return &SheetsIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// sharedFetchTimeout limita a leitura compartilhada, que não depende mais do
// contexto de quem a iniciou.
const sharedFetchTimeout = 2 * time.Minute

// FetchTabs lê todas as abas visíveis da planilha. Chamadas simultâneas para a
// mesma planilha compartilham uma única leitura; cada chamador pode desistir
// pelo próprio contexto sem derrubar os demais.
func (s *SheetsIntegrator) FetchTabs(ctx context.Context, spreadsheetID string) ([]domain.Tab, error) {
	ch := s.group.DoChan(spreadsheetID, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return s.fetchTabs(fetchCtx, spreadsheetID)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}

	if res.Err != nil {
		return nil, res.Err
	}

	if res.Shared {
		log.ForContext(ctx).WithField("spreadsheet_id", spreadsheetID).Debug("sheets: fetch shared with concurrent request")
	}

	return res.Val.([]domain.Tab), nil
}

func (s *SheetsIntegrator) fetchTabs(ctx context.Context, spreadsheetID string) ([]domain.Tab, error) {
	start := time.Now()
	logger := log.ForContext(ctx).WithField("spreadsheet_id", spreadsheetID)

	properties, err := s.Client.ListSheets(ctx, spreadsheetID)
	if err != nil {
		metrics.SheetFetches.WithLabelValues(metrics.StatusError).Inc()
		logger.WithError(err).Error("sheets: failed to list tabs")
		return nil, err
	}

	titles := readableTitles(properties)
	chunks := chunk(titles, s.rangesPerRequest())
	results := make([][]sheetsdomain.TabValues, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for i, titlesChunk := range chunks {
		g.Go(func() error {
			values, err := s.Client.GetValues(gctx, spreadsheetID, titlesChunk)
			if err != nil {
				return err
			}
			results[i] = values
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.SheetFetches.WithLabelValues(metrics.StatusError).Inc()
		logger.WithError(err).Error("sheets: failed to read tab values")
		return nil, err
	}

	tabs := make([]domain.Tab, 0, len(titles))
	for _, values := range results {
		for _, tab := range values {
			tabs = append(tabs, domain.NewTab(tab.Title, tab.Values))
		}
	}

	metrics.SheetFetches.WithLabelValues(metrics.StatusSuccess).Inc()
	metrics.SheetFetchDuration.Observe(time.Since(start).Seconds())

	logger.WithFields(log.Fields{
		"tabs":        len(tabs),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("sheets: spreadsheet fetched")

	return tabs, nil
}

func (s *SheetsIntegrator) rangesPerRequest() int {
	if s.cfg.RangesPerRequest <= 0 {
		return 10
	}
	return s.cfg.RangesPerRequest
}

func (s *SheetsIntegrator) concurrency() int {
	if s.cfg.FetchConcurrency <= 0 {
		return 1
	}
	return s.cfg.FetchConcurrency
}

func readableTitles(properties []sheetsdomain.SheetProperties) []string {
	titles := make([]string, 0, len(properties))
	for _, p := range properties {
		if p.IsReadable() {
			titles = append(titles, p.Title)
		}
	}
	return titles
}

func chunk(items []string, size int) [][]string {
	chunks := make([][]string, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
