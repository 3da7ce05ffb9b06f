// Package metrics holds the Prometheus collectors for the notification pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Listener
	ChangeEventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_change_events_received_total",
			Help: "Change events received from the database, by channel",
		},
		[]string{"channel"},
	)

	ChangeEventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_change_events_dropped_total",
			Help: "Change events dropped before dispatch, by reason",
		},
		[]string{"reason"},
	)

	ListenerLeader = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_listener_leader",
			Help: "1 when this instance holds the LISTEN subscriptions",
		},
	)

	DispatchQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_dispatch_queue_depth",
			Help: "Change events waiting for the dispatcher",
		},
	)

	// Dispatcher
	NotificationsPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_persisted_total",
			Help: "Notifications written to the store, by type",
		},
		[]string{"type"},
	)

	NotificationPersistErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_persist_errors_total",
			Help: "Failed notification writes",
		},
	)

	NotificationsSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_suppressed_total",
			Help: "Notifications skipped by preference gating, by stage",
		},
		[]string{"stage"},
	)

	ReplayErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_replay_errors_total",
			Help: "Replay reads that degraded to an empty list",
		},
	)

	// WebSocket
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_ws_connections_active",
			Help: "Current number of WebSocket connections",
		},
	)

	WSRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_ws_rooms_active",
			Help: "Current number of non-empty user rooms",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_ws_messages_sent_total",
			Help: "Messages queued to WebSocket connections, by event",
		},
		[]string{"event"},
	)

	WSSendDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_ws_send_dropped_total",
			Help: "Messages dropped because a connection's send buffer was full",
		},
	)

	// Relay
	RelayPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_relay_publish_errors_total",
			Help: "Failed Redis relay publishes",
		},
	)
)
