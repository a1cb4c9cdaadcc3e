package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Mutations applied to the in-memory stores
	EntityMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entity_mutations_total",
			Help: "Total number of entity mutations",
		},
		[]string{"entity", "op"}, // entity: user, project, task, comment
	)

	// Activity deliveries to external sinks
	ActivityEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_events_total",
			Help: "Total number of activity events delivered to sinks",
		},
		[]string{"sink", "status"}, // status: success, failed, skipped
	)

	// Login outcomes
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"}, // result: success, failed, throttled
	)

	// Postgres statements slower than the tracer threshold
	SlowQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_slow_queries_total",
			Help: "Total number of slow database queries",
		},
		[]string{"statement"},
	)
)

// RecordHTTPRequestDuration observes one finished request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordMutation(entity, op string) {
	EntityMutations.WithLabelValues(entity, op).Inc()
}

// RecordMutationN counts n mutations at once, e.g. a cascade.
func RecordMutationN(entity, op string, n int) {
	EntityMutations.WithLabelValues(entity, op).Add(float64(n))
}

func RecordActivityDelivery(sink, status string) {
	ActivityEvents.WithLabelValues(sink, status).Inc()
}

func RecordLoginAttempt(result string) {
	LoginAttempts.WithLabelValues(result).Inc()
}

func RecordSlowQuery(statement string) {
	SlowQueries.WithLabelValues(statement).Inc()
}
