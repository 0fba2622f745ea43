package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTransformsCounter(t *testing.T) {
	before := testutil.ToFloat64(Transforms.WithLabelValues("campaign", StatusSuccess))

	Transforms.WithLabelValues("campaign", StatusSuccess).Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(Transforms.WithLabelValues("campaign", StatusSuccess)))
}

func TestHandler(t *testing.T) {
	SheetFetches.WithLabelValues(StatusSuccess).Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "campaign_metrics_sheet_fetches_total")
}
