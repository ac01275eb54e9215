package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOutcome(t *testing.T) {
	before := testutil.ToFloat64(searchOutcomes.WithLabelValues("results"))
	RecordOutcome("results")
	assert.Equal(t, before+1, testutil.ToFloat64(searchOutcomes.WithLabelValues("results")))
}

func TestRecordRequest(t *testing.T) {
	RecordRequestStart()
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequestsInFlight))
	RecordRequestFinish(http.MethodPost, "/api/execute", "200", 0.2)
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight))
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodPost, "/api/execute", "200")))
}

func TestObserveUpstreamAndHandler(t *testing.T) {
	ObserveUpstream(UpstreamPlaces, nil, 0.3)
	ObserveUpstream(UpstreamModel, errors.New("boom"), 1.5)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, Path, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `upstream_request_duration_seconds_count{result="error",upstream="model"} 1`)
	assert.Contains(t, rec.Body.String(), `upstream_request_duration_seconds_count{result="ok",upstream="places"} 1`)
}
