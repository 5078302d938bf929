// Package metrics records doze transition metrics. Components take a Recorder
// and default to NoopRecorder; the server injects a PrometheusRecorder.
package metrics

import "time"

// Outcome of a whole transition request.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeVerifyFailed   Outcome = "verify_failed"
	OutcomeTransportError Outcome = "transport_error"
)

// Recorder defines observability hooks for doze transitions.
type Recorder interface {
	IncAttempt(dozeType, direction string, ok bool)
	IncTransition(dozeType, direction string, outcome Outcome)
	ObserveTransitionDuration(dozeType, direction string, d time.Duration)
	SetIdle(serial, dozeType string, idle bool)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncAttempt(string, string, bool)                         {}
func (NoopRecorder) IncTransition(string, string, Outcome)                   {}
func (NoopRecorder) ObserveTransitionDuration(string, string, time.Duration) {}
func (NoopRecorder) SetIdle(string, string, bool)                            {}
