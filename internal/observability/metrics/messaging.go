package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Total number of persisted direct messages by origin",
		},
		[]string{"origin"},
	)

	EligibilityChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messaging_eligibility_checks_total",
			Help:      "Total number of eligibility gate evaluations by result",
		},
		[]string{"result"},
	)

	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messaging_dispatch_total",
			Help:      "Live dispatch attempts by event and outcome",
		},
		[]string{"event", "outcome"},
	)

	DirectoryRegistrations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "messaging_directory_registrations",
			Help:      "Number of users with a live connection registered",
		},
	)

	WebSocketConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections_active",
			Help:      "Number of open WebSocket connections",
		},
	)

	WebSocketDisconnections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_disconnections_total",
			Help:      "Total number of WebSocket disconnections",
		},
		[]string{"reason"},
	)

	WebSocketEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_events_total",
			Help:      "Total number of inbound WebSocket events by type",
		},
		[]string{"event"},
	)

	WebSocketErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_errors_total",
			Help:      "Total number of error events sent to clients by code",
		},
		[]string{"code"},
	)

	WebSocketDroppedEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_dropped_events_total",
			Help:      "Total number of outbound events dropped because the client buffer was full",
		},
		[]string{"event"},
	)

	RelayPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messaging_relay_published_total",
			Help:      "Events published to the cross-instance relay by result",
		},
		[]string{"result"},
	)

	RelayReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messaging_relay_received_total",
			Help:      "Events received from the cross-instance relay by outcome",
		},
		[]string{"outcome"},
	)
)
