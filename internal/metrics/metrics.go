// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Ticks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tgvmax_watch_ticks_total",
		Help: "The total number of scheduled trip checks",
	})
	TripsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tgvmax_trips_expired_total",
		Help: "The total number of trips retired because their departure window passed",
	})
	ActiveWatches = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tgvmax_active_watches",
		Help: "The number of trips currently being watched",
	})

	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tgvmax_fetch_failures_total",
		Help: "The total number of provider searches that yielded no result because of an error",
	}, []string{"reason"})
	TicketsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tgvmax_tickets_fetched_total",
		Help: "The total number of tickets returned by the provider",
	})
	SearchCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tgvmax_search_cache_total",
		Help: "Search cache lookups by result",
	}, []string{"result"})

	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tgvmax_notifications_sent_total",
		Help: "The total number of notification messages delivered",
	})
	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tgvmax_notification_failures_total",
		Help: "The total number of notification messages that could not be delivered",
	})
	TicketsNotified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tgvmax_tickets_notified_total",
		Help: "The total number of novel tickets included in notifications",
	})
)

// Fetch failure reasons.
const (
	ReasonNetwork = "network"
	ReasonStatus  = "status"
	ReasonDecode  = "decode"
)
