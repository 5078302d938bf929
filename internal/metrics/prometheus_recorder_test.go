package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_Counts(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncAttempt("deep", "enter", false)
	pr.IncAttempt("deep", "enter", false)
	pr.IncAttempt("deep", "enter", true)
	pr.IncTransition("deep", "enter", OutcomeSuccess)
	pr.IncTransition("light", "leave", OutcomeTransportError)
	pr.ObserveTransitionDuration("deep", "enter", 2*time.Second)
	pr.SetIdle("emu-5554", "deep", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.attempts.WithLabelValues("deep", "enter", "mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.attempts.WithLabelValues("deep", "enter", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.transitions.WithLabelValues("light", "leave", "transport_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.idle.WithLabelValues("emu-5554", "deep")))

	pr.SetIdle("emu-5554", "deep", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(pr.idle.WithLabelValues("emu-5554", "deep")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 4)
}

func TestPrometheusRecorder_HTTPHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncTransition("light", "enter", OutcomeVerifyFailed)

	w := httptest.NewRecorder()
	pr.HTTPHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `dozectl_transitions_total{direction="enter",doze_type="light",outcome="verify_failed"} 1`)
}

func TestNilAndNoopRecorders(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncAttempt("deep", "enter", true)
	pr.SetIdle("x", "deep", true)

	var r Recorder = NoopRecorder{}
	r.IncTransition("deep", "enter", OutcomeSuccess)
	r.ObserveTransitionDuration("deep", "enter", time.Second)
}
