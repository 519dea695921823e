package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveScan("mine", 1, 1, time.Second, nil)
	m.ObserveAction("mint", "success", time.Second)
	m.SessionEvent("connect")
	m.SetConnected(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveScan("all", 50, 2, time.Second, nil)
	m.ObserveScan("mine", 3, 0, time.Second, errors.New("boom"))
	m.ObserveAction("list", "success", 2*time.Second)
	m.SessionEvent("disconnect")
	m.SetConnected(true)

	require.Equal(t, float64(50), testutil.ToFloat64(m.ScanProbes.WithLabelValues("all")))
	require.Equal(t, float64(2), testutil.ToFloat64(m.ScanMatches.WithLabelValues("all")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.ScanFailures.WithLabelValues("mine")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.ActionsTotal.WithLabelValues("list", "success")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.SessionEvents.WithLabelValues("disconnect")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Connected))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "heronft_client_discovery_probes_total")
}
