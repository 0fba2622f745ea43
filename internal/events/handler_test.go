package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/internal/usecases/campaigning"
	campaignmocks "github.com/vfg2006/campaign-metrics-api/internal/usecases/campaigning/mocks"
	"github.com/vfg2006/campaign-metrics-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	goleak.VerifyTestMain(m)
}

// fakeAcknowledger registra a decisão tomada sobre a entrega
type fakeAcknowledger struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

var referenceNow = time.Date(2024, 3, 16, 8, 0, 0, 0, time.UTC)

func newTestHandler(ctrl *gomock.Controller) (*Handler, *campaignmocks.MockCampaigner, *mocks.MockSheetSourceRepository) {
	campaigner := campaignmocks.NewMockCampaigner(ctrl)
	sourceRepo := mocks.NewMockSheetSourceRepository(ctrl)

	handler := NewHandler(campaigner, sourceRepo, 7)
	handler.now = func() time.Time { return referenceNow }

	return handler, campaigner, sourceRepo
}

func TestHandler_HandleDelivery(t *testing.T) {
	activeSource := &domain.SheetSource{ID: "src1", SpreadsheetID: "sheet-1", Active: true}
	fetchErr := campaigning.NewCampaignErrorWithSource(campaigning.ErrSheetFetch, apiErrors.ErrExternalService, "src1", "")

	tests := []struct {
		name         string
		body         string
		redelivered  bool
		setup        func(c *campaignmocks.MockCampaigner, r *mocks.MockSheetSourceRepository)
		wantAck      bool
		wantRequeued bool
	}{
		{
			name: "Mensagem com source_id recalcula a janela padrão",
			body: `{"source_id":"src1"}`,
			setup: func(c *campaignmocks.MockCampaigner, r *mocks.MockSheetSourceRepository) {
				from := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
				to := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
				c.EXPECT().GetSource(gomock.Any(), "src1").Return(activeSource, nil)
				c.EXPECT().
					RefreshSource(gomock.Any(), activeSource, domain.DateRange{From: &from, To: &to}).
					Return(&domain.CampaignMetrics{Leads: 10}, nil)
			},
			wantAck: true,
		},
		{
			name: "Mensagem com período explícito usa as datas enviadas",
			body: `{"source_id":"src1","start_date":"2024-01-01","end_date":"2024-01-31"}`,
			setup: func(c *campaignmocks.MockCampaigner, r *mocks.MockSheetSourceRepository) {
				from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
				to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
				c.EXPECT().GetSource(gomock.Any(), "src1").Return(activeSource, nil)
				c.EXPECT().
					RefreshSource(gomock.Any(), activeSource, domain.DateRange{From: &from, To: &to}).
					Return(nil, nil)
			},
			wantAck: true,
		},
		{
			name: "Mensagem com spreadsheet_id recalcula todas as planilhas vinculadas",
			body: `{"spreadsheet_id":"sheet-1"}`,
			setup: func(c *campaignmocks.MockCampaigner, r *mocks.MockSheetSourceRepository) {
				other := &domain.SheetSource{ID: "src2", SpreadsheetID: "sheet-1", Active: true}
				r.EXPECT().ListBySpreadsheetID(gomock.Any(), "sheet-1").Return([]*domain.SheetSource{activeSource, other}, nil)
				c.EXPECT().RefreshSource(gomock.Any(), activeSource, gomock.Any()).Return(&domain.CampaignMetrics{}, nil)
				c.EXPECT().RefreshSource(gomock.Any(), other, gomock.Any()).Return(&domain.CampaignMetrics{}, nil)
			},
			wantAck: true,
		},
		{
			name:    "JSON inválido é descartado",
			body:    `{"source_id":`,
			setup:   func(c *campaignmocks.MockCampaigner, r *mocks.MockSheetSourceRepository) {},
			wantAck: false,
		},
		{
			name:    "Mensagem sem identificadores é descartada",
			body:    `{"start_date":"2024-01-01","end_date":"2024-01-31"}`,
			setup:   func(c *campaignmocks.MockCampaigner, r *mocks.MockSheetSourceRepository) {},
			wantAck: false,
		},
		{
			name: "Data inválida é descartada",
			body: `{"source_id":"src1","start_date":"01/01/2024","end_date":"2024-01-31"}`,
			setup: func(c *campaignmocks.MockCampaigner, r *mocks.MockSheetSourceRepository) {
				c.EXPECT().GetSource(gomock.Any(), gomock.Any()).Times(0)
			},
			wantAck: false,
		},
		{
			name: "Planilha inexistente é descartada",
			body: `{"source_id":"missing"}`,
			setup: func(c *campaignmocks.MockCampaigner, r *mocks.MockSheetSourceRepository) {
				c.EXPECT().GetSource(gomock.Any(), "missing").
					Return(nil, campaigning.NewCampaignErrorWithSource(campaigning.ErrSourceNotFound, apiErrors.ErrSourceNotFound, "missing", ""))
			},
			wantAck: false,
		},
		{
			name: "Nenhuma planilha vinculada ao spreadsheet_id é descartada",
			body: `{"spreadsheet_id":"unknown"}`,
			setup: func(c *campaignmocks.MockCampaigner, r *mocks.MockSheetSourceRepository) {
				r.EXPECT().ListBySpreadsheetID(gomock.Any(), "unknown").Return([]*domain.SheetSource{}, nil)
			},
			wantAck: false,
		},
		{
			name: "Falha de leitura volta para a fila",
			body: `{"source_id":"src1"}`,
			setup: func(c *campaignmocks.MockCampaigner, r *mocks.MockSheetSourceRepository) {
				c.EXPECT().GetSource(gomock.Any(), "src1").Return(activeSource, nil)
				c.EXPECT().RefreshSource(gomock.Any(), activeSource, gomock.Any()).Return(nil, fetchErr)
			},
			wantAck:      false,
			wantRequeued: true,
		},
		{
			name:        "Falha em mensagem reentregue não volta para a fila",
			body:        `{"source_id":"src1"}`,
			redelivered: true,
			setup: func(c *campaignmocks.MockCampaigner, r *mocks.MockSheetSourceRepository) {
				c.EXPECT().GetSource(gomock.Any(), "src1").Return(activeSource, nil)
				c.EXPECT().RefreshSource(gomock.Any(), activeSource, gomock.Any()).Return(nil, fetchErr)
			},
			wantAck:      false,
			wantRequeued: false,
		},
		{
			name: "Erro no banco ao listar planilhas volta para a fila",
			body: `{"spreadsheet_id":"sheet-1"}`,
			setup: func(c *campaignmocks.MockCampaigner, r *mocks.MockSheetSourceRepository) {
				r.EXPECT().ListBySpreadsheetID(gomock.Any(), "sheet-1").Return(nil, errors.New("connection reset"))
			},
			wantAck:      false,
			wantRequeued: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			handler, campaigner, sourceRepo := newTestHandler(ctrl)
			tt.setup(campaigner, sourceRepo)

			ack := &fakeAcknowledger{}
			delivery := amqp091.Delivery{
				Acknowledger: ack,
				DeliveryTag:  1,
				Redelivered:  tt.redelivered,
				Body:         []byte(tt.body),
			}

			handler.HandleDelivery(context.Background(), delivery)

			assert.Equal(t, tt.wantAck, ack.acked)
			assert.Equal(t, !tt.wantAck, ack.nacked)
			assert.Equal(t, tt.wantRequeued, ack.requeued)
		})
	}
}

func TestHandler_HandleSkipsInactiveSourceAmongMany(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler, campaigner, sourceRepo := newTestHandler(ctrl)

	active := &domain.SheetSource{ID: "src1", SpreadsheetID: "sheet-1", Active: true}
	inactive := &domain.SheetSource{ID: "src2", SpreadsheetID: "sheet-1", Active: false}

	sourceRepo.EXPECT().ListBySpreadsheetID(gomock.Any(), "sheet-1").Return([]*domain.SheetSource{active, inactive}, nil)
	campaigner.EXPECT().RefreshSource(gomock.Any(), active, gomock.Any()).Return(&domain.CampaignMetrics{}, nil)
	campaigner.EXPECT().RefreshSource(gomock.Any(), inactive, gomock.Any()).
		Return(nil, campaigning.NewCampaignErrorWithSource(campaigning.ErrSourceInactive, apiErrors.ErrSourceInactive, "src2", ""))

	err := handler.Handle(context.Background(), NewSheetUpdatedMessage("", "sheet-1"))

	require.NoError(t, err)
}

func TestSheetUpdatedMessageFromJSON(t *testing.T) {
	t.Run("Remove espaços dos identificadores", func(t *testing.T) {
		msg, err := SheetUpdatedMessageFromJSON([]byte(`{"source_id":"  src1  "}`))

		require.NoError(t, err)
		assert.Equal(t, "src1", msg.SourceID)
	})

	t.Run("Período incompleto é inválido", func(t *testing.T) {
		_, err := SheetUpdatedMessageFromJSON([]byte(`{"source_id":"src1","start_date":"2024-01-01"}`))

		assert.ErrorIs(t, err, ErrInvalidMessage)
	})

	t.Run("Mensagem publicada pode ser lida de volta", func(t *testing.T) {
		body, err := NewSheetUpdatedMessage("src1", "sheet-1").ToJSON()
		require.NoError(t, err)

		msg, err := SheetUpdatedMessageFromJSON(body)

		require.NoError(t, err)
		assert.Equal(t, "sheet-1", msg.SpreadsheetID)
		_, _, ok, err := msg.Period()
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{12, 30 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestIsConnectionError(t *testing.T) {
	assert.False(t, isConnectionError(nil))
	assert.True(t, isConnectionError(ErrChannelClosed))
	assert.True(t, isConnectionError(amqp091.ErrClosed))
	assert.True(t, isConnectionError(errors.New("unexpected EOF")))
	assert.True(t, isConnectionError(errors.New("write: broken pipe")))
	assert.False(t, isConnectionError(errors.New("invalid input")))
}
