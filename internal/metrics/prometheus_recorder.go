package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dozectl"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg         *prom.Registry
	attempts    *prom.CounterVec
	transitions *prom.CounterVec
	duration    *prom.HistogramVec
	idle        *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers the metrics on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		attempts: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "transition_attempts_total",
			Help:      "Doze transition attempts by verification result",
		}, []string{"doze_type", "direction", "result"}),
		transitions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Doze transition requests by final outcome",
		}, []string{"doze_type", "direction", "outcome"}),
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "transition_duration_seconds",
			Help:      "Wall time of a doze transition including retries",
			Buckets:   prom.DefBuckets,
		}, []string{"doze_type", "direction"}),
		idle: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "device_idle",
			Help:      "1 when the device last reported IDLE for the doze type",
		}, []string{"serial", "doze_type"}),
	}
	reg.MustRegister(pr.attempts, pr.transitions, pr.duration, pr.idle)
	return pr
}

func (p *PrometheusRecorder) IncAttempt(dozeType, direction string, ok bool) {
	if p == nil {
		return
	}
	res := "mismatch"
	if ok {
		res = "ok"
	}
	p.attempts.WithLabelValues(dozeType, direction, res).Inc()
}

func (p *PrometheusRecorder) IncTransition(dozeType, direction string, outcome Outcome) {
	if p == nil {
		return
	}
	p.transitions.WithLabelValues(dozeType, direction, string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveTransitionDuration(dozeType, direction string, d time.Duration) {
	if p == nil {
		return
	}
	p.duration.WithLabelValues(dozeType, direction).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetIdle(serial, dozeType string, idle bool) {
	if p == nil {
		return
	}
	v := 0.0
	if idle {
		v = 1
	}
	p.idle.WithLabelValues(serial, dozeType).Set(v)
}

// HTTPHandler serves the recorder's registry.
func (p *PrometheusRecorder) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
