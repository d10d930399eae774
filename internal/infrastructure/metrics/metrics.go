package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	a "storefront-backend/internal/domains/address"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
		[]string{"service"},
	)

	GatewayOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "address_gateway_operations_total",
			Help: "Address gateway operations by operation and result code",
		},
		[]string{"op", "result"},
	)
)

// GatewayObserver đếm kết quả của từng gateway operation
type GatewayObserver struct{}

func NewGatewayObserver() GatewayObserver {
	return GatewayObserver{}
}

// ObserveGatewayOp labels success as "ok" and failures by their error code.
func (GatewayObserver) ObserveGatewayOp(op string, err error) {
	result := "ok"
	if err != nil {
		result = a.GetErrorCode(err)
	}
	GatewayOperationsTotal.WithLabelValues(op, result).Inc()
}
