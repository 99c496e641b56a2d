package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestHandlerExposesCounters(t *testing.T) {
	before := testutil.ToFloat64(IncidentsResolvedTotal)
	IncidentsResolvedTotal.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(IncidentsResolvedTotal))

	HTTPRequestsTotal.WithLabelValues("/api/incidents", "GET", "200").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "incident_dashboard_incidents_resolved_total")
	assert.Contains(t, string(body), `incident_dashboard_http_requests_total{method="GET",route="/api/incidents",status="200"}`)
}
