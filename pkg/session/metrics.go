package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectedPeers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "session_connected_peers",
		Help: "Current number of peers in the session.",
	})
	relayedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "session_relayed_messages_total",
		Help: "Messages forwarded between peers.",
	})
	relayDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "session_relay_dropped_total",
		Help: "Relay messages dropped due to validation failures or a missing peer.",
	})
	discoveryQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "session_discovery_queries_total",
		Help: "Discovery queries answered.",
	})
)
