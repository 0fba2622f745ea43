package sheets

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sheetsdomain "github.com/vfg2006/campaign-metrics-api/infrastructure/integrator/sheets/domain"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/integrator/sheets/mocks"
	"github.com/vfg2006/campaign-metrics-api/internal/config"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
	"go.uber.org/mock/gomock"
)

func init() {
	log.SetupTestLogger()
}

func TestSheetsIntegrator_FetchTabs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	integrator := New(config.Sheets{RangesPerRequest: 2, FetchConcurrency: 2}, mockClient)

	mockClient.EXPECT().
		ListSheets(gomock.Any(), "sheet-123").
		Return([]sheetsdomain.SheetProperties{
			{Title: "UFE", Type: "GRID"},
			{Title: "Hidden", Hidden: true},
			{Title: "PAE", Type: "GRID"},
			{Title: "Chart", Type: "OBJECT"},
			{Title: "Calls"},
		}, nil)

	mockClient.EXPECT().
		GetValues(gomock.Any(), "sheet-123", []string{"UFE", "PAE"}).
		Return([]sheetsdomain.TabValues{
			{Title: "UFE", Values: [][]string{{"Business", "Leads"}, {"Texas Vascular Institute", "50"}}},
			{Title: "PAE", Values: [][]string{{"Business"}}},
		}, nil)

	mockClient.EXPECT().
		GetValues(gomock.Any(), "sheet-123", []string{"Calls"}).
		Return([]sheetsdomain.TabValues{
			{Title: "Calls", Values: [][]string{{"Date", "Call Status"}}},
		}, nil)

	tabs, err := integrator.FetchTabs(context.Background(), "sheet-123")

	require.NoError(t, err)
	require.Len(t, tabs, 3)
	assert.Equal(t, "UFE", tabs[0].Name)
	assert.Equal(t, "PAE", tabs[1].Name)
	assert.Equal(t, "Calls", tabs[2].Name)
	assert.Equal(t, 50.0, tabs[0].Rows[1].Cell(1).Float())
}

func TestSheetsIntegrator_FetchTabs_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(client *mocks.MockClient)
	}{
		{
			name: "Erro ao listar abas",
			setup: func(client *mocks.MockClient) {
				client.EXPECT().ListSheets(gomock.Any(), "sheet-123").Return(nil, errors.New("quota exceeded"))
			},
		},
		{
			name: "Erro ao ler valores",
			setup: func(client *mocks.MockClient) {
				client.EXPECT().ListSheets(gomock.Any(), "sheet-123").
					Return([]sheetsdomain.SheetProperties{{Title: "UFE"}}, nil)
				client.EXPECT().GetValues(gomock.Any(), "sheet-123", []string{"UFE"}).
					Return(nil, errors.New("quota exceeded"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := mocks.NewMockClient(ctrl)
			tt.setup(mockClient)

			tabs, err := New(config.Sheets{}, mockClient).FetchTabs(context.Background(), "sheet-123")

			assert.EqualError(t, err, "quota exceeded")
			assert.Nil(t, tabs)
		})
	}
}

func TestSheetsIntegrator_FetchTabs_EmptySpreadsheet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	mockClient.EXPECT().ListSheets(gomock.Any(), "empty").Return(nil, nil)

	tabs, err := New(config.Sheets{}, mockClient).FetchTabs(context.Background(), "empty")

	require.NoError(t, err)
	assert.Empty(t, tabs)
}

func TestSheetsIntegrator_FetchTabs_ConcurrentCallsShareResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	mockClient := mocks.NewMockClient(ctrl)
	mockClient.EXPECT().
		ListSheets(gomock.Any(), "sheet-123").
		DoAndReturn(func(ctx context.Context, id string) ([]sheetsdomain.SheetProperties, error) {
			<-release
			return nil, nil
		}).
		MinTimes(1).
		MaxTimes(2)

	integrator := New(config.Sheets{}, mockClient)

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := integrator.FetchTabs(context.Background(), "sheet-123")
			assert.NoError(t, err)
		}()
	}

	close(release)
	wg.Wait()
}

func TestSheetsIntegrator_FetchTabs_CancelledCallerDoesNotAbortSharedFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	fetchCtxs := make(chan context.Context, 2)

	mockClient := mocks.NewMockClient(ctrl)
	mockClient.EXPECT().
		ListSheets(gomock.Any(), "sheet-123").
		DoAndReturn(func(ctx context.Context, id string) ([]sheetsdomain.SheetProperties, error) {
			fetchCtxs <- ctx
			select {
			case started <- struct{}{}:
			default:
			}
			<-release
			return nil, ctx.Err()
		}).
		MinTimes(1).
		MaxTimes(2)

	integrator := New(config.Sheets{}, mockClient)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := integrator.FetchTabs(firstCtx, "sheet-123")
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		_, err := integrator.FetchTabs(context.Background(), "sheet-123")
		secondErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	fetchCtx := <-fetchCtxs
	assert.NoError(t, fetchCtx.Err(), "a leitura compartilhada não deve herdar o cancelamento")

	close(release)
	assert.NoError(t, <-secondErr)
}

func TestChunk(t *testing.T) {
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, chunk([]string{"a", "b", "c"}, 2))
	assert.Empty(t, chunk(nil, 3))
}
