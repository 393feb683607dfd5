package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Request metrics
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connector_requests_total",
			Help: "Total number of REST requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connector_request_duration_seconds",
			Help:    "Latency of REST requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Clock metrics
	clockOffset = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "connector_clock_offset_ms",
			Help: "Last measured server time minus local time in milliseconds",
		},
	)

	// Market data metrics
	quotePrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "connector_quote_price",
			Help: "Last fetched best bid/ask per symbol",
		},
		[]string{"symbol", "side"},
	)

	// Order metrics
	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connector_orders_total",
			Help: "Total number of order placements by outcome",
		},
		[]string{"symbol", "side", "result"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(clockOffset)
	prometheus.MustRegister(quotePrice)
	prometheus.MustRegister(ordersTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct {
	handler http.Handler
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{handler: promhttp.Handler()}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// RecordRequest counts a finished request and feeds the health checker.
// status is the HTTP status code or "error" when no response was received.
func RecordRequest(method, path, status string) {
	requestsTotal.WithLabelValues(method, path, status).Inc()
	if status == "200" {
		defaultHealth.RecordSuccess()
		return
	}
	defaultHealth.RecordFailure(method + " " + path + ": " + status)
}

// ObserveRequestDuration records how long a request took
func ObserveRequestDuration(method, path string, d time.Duration) {
	requestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// SetClockOffset updates the clock offset gauge
func SetClockOffset(offsetMs int64) {
	clockOffset.Set(float64(offsetMs))
	defaultHealth.SetClockSynced(true)
}

// UpdateQuote updates the bid/ask gauges for symbol
func UpdateQuote(symbol string, bid, ask float64) {
	quotePrice.WithLabelValues(symbol, "bid").Set(bid)
	quotePrice.WithLabelValues(symbol, "ask").Set(ask)
}

// RecordOrder counts an order placement attempt
func RecordOrder(symbol, side, result string) {
	ordersTotal.WithLabelValues(symbol, side, result).Inc()
}
