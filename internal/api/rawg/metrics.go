package rawg

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for upstream metrics.
const (
	outcomeSuccess     = "success"
	outcomeTransport   = "transport_error"
	outcomeStatus      = "status_error"
	outcomeInvalidBody = "invalid_body"
)

var (
	// UpstreamRequests counts outbound calls.
	// Labels:
	//   - resource: games, game, genres, platforms, reviews, search, recent_games
	//   - outcome: success, transport_error, status_error, invalid_body
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rawg_upstream_requests_total",
			Help: "Total number of requests sent to the RAWG API",
		},
		[]string{"resource", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rawg_upstream_request_duration_seconds",
			Help:    "Duration of requests sent to the RAWG API",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"resource"},
	)
)
