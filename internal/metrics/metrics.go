package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stolik",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by method, path and status code.",
		},
		[]string{"method", "path", "code"},
	)

	orderCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stolik",
			Name:      "order_created_total",
			Help:      "Count of orders created by status.",
		},
		[]string{"status"},
	)

	orderRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stolik",
			Name:      "order_rejected_total",
			Help:      "Count of booking validations rejected by reason kind.",
		},
		[]string{"kind"},
	)

	orderDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stolik",
			Name:      "order_deleted_total",
			Help:      "Count of orders deleted.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, orderCreated, orderRejected, orderDeleted)
	})
}

func IncHTTPRequest(method, path, code string) {
	httpRequests.WithLabelValues(method, path, code).Inc()
}

func IncOrderCreated(status string) {
	orderCreated.WithLabelValues(status).Inc()
}

func IncOrderRejected(kind string) {
	orderRejected.WithLabelValues(kind).Inc()
}

func IncOrderDeleted() {
	orderDeleted.Inc()
}
