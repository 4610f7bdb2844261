package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnibus_requests_total",
			Help: "Total number of requests",
		},
		[]string{"route", "code", "method"},
	)

	BookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "omnibus_bookings_created_total",
			Help: "Total bookings created through the flow",
		},
	)

	CheckIns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "omnibus_checkins_total",
			Help: "Total passengers checked in",
		},
	)

	StorePersistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "omnibus_store_persist_failures_total",
			Help: "Failed writes of the booking blob",
		},
	)

	InsightRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnibus_insight_requests_total",
			Help: "Insight provider requests by outcome",
		},
		[]string{"outcome"},
	)

	RateLimitExceeded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "omnibus_rate_limit_exceeded_total",
			Help: "Total rate limit exceeded",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(RequestsTotal, BookingsCreated, CheckIns, StorePersistFailures, InsightRequests, RateLimitExceeded)
}
