package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/repository"
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
	"github.com/vfg2006/campaign-metrics-api/pkg/metrics"
)

// Handler recalcula as planilhas indicadas nas mensagens de atualização
type Handler struct {
	campaigner   campaigning.Campaigner
	sourceRepo   repository.SheetSourceRepository
	lookbackDays int
	now          func() time.Time
}

func NewHandler(campaigner campaigning.Campaigner, sourceRepo repository.SheetSourceRepository, lookbackDays int) *Handler {
	if lookbackDays <= 0 {
		lookbackDays = 1
	}
	return &Handler{
		campaigner:   campaigner,
		sourceRepo:   sourceRepo,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// HandleDelivery confirma ou rejeita a entrega conforme o resultado.
// Mensagem inválida ou planilha desconhecida é descartada; falha transitória
// volta para a fila uma única vez.
func (h *Handler) HandleDelivery(ctx context.Context, delivery amqp091.Delivery) {
	ctx, _ = log.WithCorrelationID(ctx)
	logger := log.ForContext(ctx)

	msg, err := SheetUpdatedMessageFromJSON(delivery.Body)
	if err != nil {
		logger.WithError(err).Warn("events: discarding malformed message")
		metrics.EventsConsumed.WithLabelValues(metrics.StatusSkipped).Inc()
		delivery.Nack(false, false)
		return
	}

	err = h.Handle(ctx, msg)
	switch {
	case err == nil:
		metrics.EventsConsumed.WithLabelValues(metrics.StatusSuccess).Inc()
		delivery.Ack(false)
	case isPermanent(err):
		logger.WithError(err).WithField("source_id", msg.SourceID).Warn("events: discarding message for unusable source")
		metrics.EventsConsumed.WithLabelValues(metrics.StatusSkipped).Inc()
		delivery.Nack(false, false)
	default:
		requeue := !delivery.Redelivered
		logger.WithError(err).WithField("source_id", msg.SourceID).Errorf("events: failed to handle message (requeue=%t)", requeue)
		metrics.EventsConsumed.WithLabelValues(metrics.StatusError).Inc()
		delivery.Nack(false, requeue)
	}
}

// Handle resolve as planilhas da mensagem e recalcula cada uma
func (h *Handler) Handle(ctx context.Context, msg *SheetUpdatedMessage) error {
	dateRange, err := h.dateRange(msg)
	if err != nil {
		return err
	}

	sources, err := h.resolveSources(ctx, msg)
	if err != nil {
		return err
	}

	var errs []error
	for _, source := range sources {
		result, err := h.campaigner.RefreshSource(ctx, source, dateRange)
		if err != nil {
			if len(sources) > 1 && isPermanent(err) {
				log.ForContext(ctx).WithError(err).WithField("source_id", source.ID).Warn("events: skipping source")
				continue
			}
			errs = append(errs, err)
			continue
		}

		log.ForContext(ctx).WithFields(log.Fields{
			"source_id":      source.ID,
			"spreadsheet_id": source.SpreadsheetID,
			"no_data":        result == nil,
		}).Info("events: source refreshed")
	}

	return errors.Join(errs...)
}

func (h *Handler) resolveSources(ctx context.Context, msg *SheetUpdatedMessage) ([]*domain.SheetSource, error) {
	if msg.SourceID != "" {
		source, err := h.campaigner.GetSource(ctx, msg.SourceID)
		if err != nil {
			return nil, err
		}
		return []*domain.SheetSource{source}, nil
	}

	sources, err := h.sourceRepo.ListBySpreadsheetID(ctx, msg.SpreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("list sources by spreadsheet: %w", err)
	}
	if len(sources) == 0 {
		return nil, campaigning.NewCampaignError(campaigning.ErrSourceNotFound, "", "spreadsheet "+msg.SpreadsheetID)
	}
	return sources, nil
}

func (h *Handler) dateRange(msg *SheetUpdatedMessage) (domain.DateRange, error) {
	from, to, ok, err := msg.Period()
	if err != nil {
		return domain.DateRange{}, err
	}
	if ok {
		return domain.DateRange{From: &from, To: &to}, nil
	}

	return domain.LookbackRange(h.now(), h.lookbackDays), nil
}

// isPermanent indica erros que não mudam com nova tentativa
func isPermanent(err error) bool {
	return errors.Is(err, ErrInvalidMessage) ||
		errors.Is(err, campaigning.ErrSourceNotFound) ||
		errors.Is(err, campaigning.ErrSourceInactive) ||
		errors.Is(err, campaigning.ErrSourceIDRequired) ||
		errors.Is(err, campaigning.ErrInvalidDateRange)
}
