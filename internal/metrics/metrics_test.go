package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest(http.MethodGet, "/contacts", http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/contacts", http.StatusOK, 20*time.Millisecond)
	m.RecordAuthFailure("api")
	m.RecordRegistration()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/contacts", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthFailuresTotal.WithLabelValues("api")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.RecordAuthFailure("web")
		m.RecordRegistration()
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := NewDefault()
	m.RecordRegistration()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "contactmanager_registrations_total 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
