package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Webhook intake metrics
	EventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidabot_events_received_total",
			Help: "Total webhook events received",
		},
		[]string{"event_type"},
	)

	MalformedPayloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vidabot_malformed_payloads_total",
			Help: "Total webhook requests rejected as malformed",
		},
	)

	// Pipeline metrics
	IntentsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidabot_intents_classified_total",
			Help: "Total messages classified, by intent kind",
		},
		[]string{"kind"},
	)

	DispatchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidabot_dispatch_errors_total",
			Help: "Total dispatch failures, by error kind",
		},
		[]string{"kind"}, // "incomplete_command" or "storage_unavailable"
	)

	// Collaborator metrics
	EventLogFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vidabot_event_log_failures_total",
			Help: "Total failures persisting inbound events",
		},
	)

	OutboundMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidabot_outbound_messages_total",
			Help: "Total outbound WhatsApp messages, by result",
		},
		[]string{"status"}, // "sent" or "failed"
	)
)
