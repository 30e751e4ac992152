package metrics

import (
	"time"

	"signal-desk/internal/dashboard"
	"signal-desk/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements dashboard.Observer using Prometheus.
type Recorder struct {
	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	alerts   *prometheus.CounterVec
	sessions prometheus.Gauge
}

// New registers the desk metrics on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		actions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desk_actions_total",
				Help: "Dashboard actions by kind and result class",
			},
			[]string{"action", "result"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "desk_action_duration_seconds",
				Help:    "Time the action lock was held per action",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		alerts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desk_alerts_total",
				Help: "Signals carrying risk or dragon alerts",
			},
			[]string{"kind"},
		),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "desk_active_sessions",
			Help: "Connected operator sessions",
		}),
	}
}

func (r *Recorder) ActionFinished(kind dashboard.ActionKind, held time.Duration, err error) {
	r.actions.WithLabelValues(kind.String(), dashboard.ErrorClass(err)).Inc()
	r.duration.WithLabelValues(kind.String()).Observe(held.Seconds())
}

func (r *Recorder) AlertsRaised(sig domain.SignalReady) {
	if sig.RiskAlert.Present() {
		r.alerts.WithLabelValues("risk").Inc()
	}
	if sig.DragonAlert.Present() {
		r.alerts.WithLabelValues("dragon").Inc()
	}
}

// SessionOpened and SessionClosed track connected operators.
func (r *Recorder) SessionOpened() { r.sessions.Inc() }
func (r *Recorder) SessionClosed() { r.sessions.Dec() }
