// Package metrics exposes Prometheus counters for playback sessions.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tvzap/tvzap/log"
)

// Switch causes.
const (
	CauseStart  = "start"
	CauseNext   = "next"
	CausePrev   = "prev"
	CauseNumber = "number"
	CauseList   = "list"
)

// Load failure reasons.
const (
	ReasonTimeout = "timeout"
	ReasonEngine  = "engine"
	ReasonRefused = "refused"
)

// Metrics holds the session counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	sessionsStarted  prometheus.Counter
	sessionsClosed   prometheus.Counter
	channelSwitches  *prometheus.CounterVec
	loadFailures     *prometheus.CounterVec
	transientInputs  prometheus.Counter
	teardownFailures prometheus.Counter
	timeToPlay       prometheus.Histogram
}

// New creates and registers the session metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tvzap_sessions_started_total",
			Help: "Total number of playback sessions started",
		}),
		sessionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tvzap_sessions_closed_total",
			Help: "Total number of playback sessions closed",
		}),
		channelSwitches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tvzap_channel_switches_total",
			Help: "Channel loads issued, by what caused the switch",
		}, []string{"cause"}),
		loadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tvzap_load_failures_total",
			Help: "Channel loads that ended in a failure, by reason",
		}, []string{"reason"}),
		transientInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tvzap_transient_input_errors_total",
			Help: "Inputs rejected with a transient notice",
		}),
		teardownFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tvzap_teardown_errors_total",
			Help: "Errors swallowed while detaching or releasing the engine",
		}),
		timeToPlay: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tvzap_time_to_play_seconds",
			Help:    "Time from issuing a load until the engine reports playback",
			Buckets: []float64{0.25, 0.5, 1, 2, 3, 5, 8, 10},
		}),
	}

	registry.MustRegister(
		m.sessionsStarted,
		m.sessionsClosed,
		m.channelSwitches,
		m.loadFailures,
		m.transientInputs,
		m.teardownFailures,
		m.timeToPlay,
	)

	return m
}

func (m *Metrics) IncSessionsStarted() {
	if m != nil {
		m.sessionsStarted.Inc()
	}
}

func (m *Metrics) IncSessionsClosed() {
	if m != nil {
		m.sessionsClosed.Inc()
	}
}

// IncChannelSwitch counts a load issued for cause.
func (m *Metrics) IncChannelSwitch(cause string) {
	if m != nil {
		m.channelSwitches.WithLabelValues(cause).Inc()
	}
}

// IncLoadFailure counts a failed load attempt.
func (m *Metrics) IncLoadFailure(reason string) {
	if m != nil {
		m.loadFailures.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) IncTransientInput() {
	if m != nil {
		m.transientInputs.Inc()
	}
}

func (m *Metrics) IncTeardownError() {
	if m != nil {
		m.teardownFailures.Inc()
	}
}

// ObserveTimeToPlay records how long a load took to start playing.
func (m *Metrics) ObserveTimeToPlay(d time.Duration) {
	if m != nil {
		m.timeToPlay.Observe(d.Seconds())
	}
}

// Handler returns an http.Handler that serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infof("serving metrics on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
