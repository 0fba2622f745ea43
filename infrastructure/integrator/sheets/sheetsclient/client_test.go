package sheetsclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sheetsdomain "github.com/vfg2006/campaign-metrics-api/infrastructure/integrator/sheets/domain"
	"github.com/vfg2006/campaign-metrics-api/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GoogleClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), config.Sheets{Endpoint: server.URL + "/"})
	require.NoError(t, err)

	return client
}

func TestGoogleClient_ListSheets(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/spreadsheets/sheet-123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sheets":[
			{"properties":{"sheetId":1,"title":"UFE","index":0,"sheetType":"GRID"}},
			{"properties":{"sheetId":2,"title":"Old","index":1,"hidden":true,"sheetType":"GRID"}},
			{"properties":{"sheetId":3,"title":"Chart","index":2,"sheetType":"OBJECT"}}
		]}`))
	})

	sheets, err := client.ListSheets(context.Background(), "sheet-123")

	require.NoError(t, err)
	require.Len(t, sheets, 3)
	assert.Equal(t, "UFE", sheets[0].Title)
	assert.True(t, sheets[0].IsReadable())
	assert.False(t, sheets[1].IsReadable())
	assert.False(t, sheets[2].IsReadable())
}

func TestGoogleClient_GetValues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/values:batchGet"))
		assert.Equal(t, []string{"'UFE'", "'Dr. O''Brien'"}, r.URL.Query()["ranges"])
		assert.Equal(t, "FORMATTED_VALUE", r.URL.Query().Get("valueRenderOption"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123","valueRanges":[
			{"range":"UFE!A1:E2","values":[["Business","Leads"],["Texas Vascular Institute",50]]},
			{"range":"'Dr. O''Brien'!A1:A1"}
		]}`))
	})

	tabs, err := client.GetValues(context.Background(), "sheet-123", []string{"UFE", "Dr. O'Brien"})

	require.NoError(t, err)
	assert.Equal(t, []sheetsdomain.TabValues{
		{Title: "UFE", Values: [][]string{{"Business", "Leads"}, {"Texas Vascular Institute", "50"}}},
		{Title: "Dr. O'Brien", Values: [][]string{}},
	}, tabs)
}

func TestGoogleClient_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found.","status":"NOT_FOUND"}}`))
	})

	_, err := client.ListSheets(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, sheetsdomain.IsNotFound(err))
	assert.False(t, sheetsdomain.IsPermissionDenied(err))
}

func TestClientOptions_MissingCredentials(t *testing.T) {
	_, err := clientOptions(config.Sheets{})

	assert.ErrorContains(t, err, "missing service account credentials")
}

func TestQuoteSheetName(t *testing.T) {
	assert.Equal(t, "'Leads 2024'", QuoteSheetName("Leads 2024"))
	assert.Equal(t, "'Dr. O''Brien'", QuoteSheetName("Dr. O'Brien"))
}
