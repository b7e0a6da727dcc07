package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the mode binder and the mock mode server

var (
	// Channel metrics (binder side)
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modebinder_events_received_total",
		Help: "Inbound channel events by event name",
	}, []string{"event"})

	EventsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modebinder_events_sent_total",
		Help: "Outbound channel events by event name and result",
	}, []string{"event", "result"}) // result: ok|error

	ChannelConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "modebinder_channel_connected",
		Help: "Channel state (0=disconnected, 1=connected)",
	})

	// Mock server metrics
	ModeChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mockserver_mode_changes_total",
		Help: "Accepted mode changes by new mode",
	}, []string{"mode"})

	ConnectedSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mockserver_connected_sockets",
		Help: "Sockets currently connected to the default namespace",
	})

	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method, path, and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, path, and status",
	}, []string{"method", "path", "status"})
)
