package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the conference box.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry                *prometheus.Registry
	participants            prometheus.Gauge
	joinsTotal              prometheus.Counter
	leavesTotal             prometheus.Counter
	speakerSelectionsTotal  prometheus.Counter
	configureFailuresTotal  prometheus.Counter
	eventLogEntries         prometheus.Gauge
	uiClients               prometheus.Gauge
	uiCommandsTotal         *prometheus.CounterVec
	uiCommandsRejectedTotal prometheus.Counter
}

// New creates and registers Prometheus metrics for the conference box.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	participants := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "confbox_participants",
		Help: "Number of remote participants in the call",
	})
	joinsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "confbox_participant_joins_total",
		Help: "Total number of participants that joined",
	})
	leavesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "confbox_participant_leaves_total",
		Help: "Total number of participants that left",
	})
	speakerSelectionsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "confbox_speaker_selections_total",
		Help: "Total number of speaker selection commands sent to the room",
	})
	configureFailuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "confbox_configure_room_failures_total",
		Help: "Total number of rejected room configuration commands",
	})
	eventLogEntries := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "confbox_event_log_entries",
		Help: "Number of entries in the session event log",
	})
	uiClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "confbox_ui_clients",
		Help: "Number of connected rendering clients",
	})
	uiCommandsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "confbox_ui_commands_total",
		Help: "Total number of rendering commands handled, by command",
	}, []string{"command"})
	uiCommandsRejectedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "confbox_ui_commands_rejected_total",
		Help: "Total number of rendering commands dropped by the rate limiter",
	})

	registry.MustRegister(
		participants,
		joinsTotal,
		leavesTotal,
		speakerSelectionsTotal,
		configureFailuresTotal,
		eventLogEntries,
		uiClients,
		uiCommandsTotal,
		uiCommandsRejectedTotal,
	)

	return &Metrics{
		registry:                registry,
		participants:            participants,
		joinsTotal:              joinsTotal,
		leavesTotal:             leavesTotal,
		speakerSelectionsTotal:  speakerSelectionsTotal,
		configureFailuresTotal:  configureFailuresTotal,
		eventLogEntries:         eventLogEntries,
		uiClients:               uiClients,
		uiCommandsTotal:         uiCommandsTotal,
		uiCommandsRejectedTotal: uiCommandsRejectedTotal,
	}
}

// SetParticipants sets the remote participants gauge.
func (m *Metrics) SetParticipants(n int) {
	if m == nil {
		return
	}
	m.participants.Set(float64(n))
}

func (m *Metrics) IncJoins() {
	if m == nil {
		return
	}
	m.joinsTotal.Inc()
}

func (m *Metrics) IncLeaves() {
	if m == nil {
		return
	}
	m.leavesTotal.Inc()
}

func (m *Metrics) IncSpeakerSelections() {
	if m == nil {
		return
	}
	m.speakerSelectionsTotal.Inc()
}

func (m *Metrics) IncConfigureFailures() {
	if m == nil {
		return
	}
	m.configureFailuresTotal.Inc()
}

// SetEventLogEntries sets the event log size gauge.
func (m *Metrics) SetEventLogEntries(n int) {
	if m == nil {
		return
	}
	m.eventLogEntries.Set(float64(n))
}

// AddUIClients moves the connected clients gauge by delta.
func (m *Metrics) AddUIClients(delta int) {
	if m == nil {
		return
	}
	m.uiClients.Add(float64(delta))
}

// IncUICommand counts one handled rendering command.
func (m *Metrics) IncUICommand(command string) {
	if m == nil {
		return
	}
	m.uiCommandsTotal.WithLabelValues(command).Inc()
}

func (m *Metrics) IncUICommandsRejected() {
	if m == nil {
		return
	}
	m.uiCommandsRejectedTotal.Inc()
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values.
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
