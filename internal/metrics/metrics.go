package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "spadewatch"

// Tick results.
const (
	ResultOK             = "ok"
	ResultUnavailable    = "unavailable"
	ResultMalformed      = "malformed"
	ResultServerNotFound = "server_not_found"
)

// Notification results.
const (
	NotifySent        = "sent"
	NotifyUnavailable = "unavailable"
	NotifyFailed      = "failed"
)

// Metrics are the watcher's instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Ticks          *prometheus.CounterVec
	Transitions    *prometheus.CounterVec
	Notifications  *prometheus.CounterVec
	PlayersCurrent prometheus.Gauge
	PlayersMax     prometheus.Gauge
	FetchDuration  prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Poll ticks by result.",
		}, []string{"result"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Classified map transitions.",
		}, []string{"transition"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Desktop notifications by dispatch result.",
		}, []string{"result"}),
		PlayersCurrent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players_current",
			Help:      "Players on the watched server at the last successful tick.",
		}),
		PlayersMax: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players_max",
			Help:      "Player capacity of the watched server at the last successful tick.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent loading the server list.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Ticks,
			m.Transitions,
			m.Notifications,
			m.PlayersCurrent,
			m.PlayersMax,
			m.FetchDuration,
		)
	}

	return m
}

func (m *Metrics) ObserveTick(result string) {
	if m == nil {
		return
	}
	m.Ticks.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveTransition(transition string, current, max int) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(transition).Inc()
	m.PlayersCurrent.Set(float64(current))
	m.PlayersMax.Set(float64(max))
}

func (m *Metrics) ObserveNotification(result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(result).Inc()
}
