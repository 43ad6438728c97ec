package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WsConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "heartlink_ws_connections",
		Help: "Live websocket connections.",
	})
	MessagesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "heartlink_messages_relayed_total",
		Help: "Messages broadcast to chat groups.",
	})
	MatchesDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "heartlink_matches_total",
		Help: "Mutual likes detected.",
	})
)

// Handler returns the scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
