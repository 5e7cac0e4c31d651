package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics — метрики шлюза кошелька. Все методы безопасно вызывать на nil.
type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	UpstreamRequestsTotal *prometheus.CounterVec
	UpstreamDuration      *prometheus.HistogramVec
	WithdrawalsTotal      *prometheus.CounterVec
	WithdrawalAmountTotal *prometheus.CounterVec
	ValidationFailures    *prometheus.CounterVec
	CatalogCacheTotal     *prometheus.CounterVec
	WSConnections         prometheus.Gauge
}

// New регистрирует метрики в reg. Для тестов передаётся отдельный prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_gateway_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_gateway_http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: []float64{0.1, 0.3, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "path"}),
		UpstreamRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_gateway_upstream_requests_total",
			Help: "Requests to the wallet backend by operation and outcome.",
		}, []string{"operation", "outcome"}),
		UpstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_gateway_upstream_duration_seconds",
			Help:    "Wallet backend call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		WithdrawalsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_gateway_withdrawals_total",
			Help: "Withdrawal submissions by payment method and final state.",
		}, []string{"method", "state"}),
		WithdrawalAmountTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_gateway_withdrawal_amount_total",
			Help: "Accepted withdrawal amount in base currency.",
		}, []string{"method"}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_gateway_validation_failures_total",
			Help: "Client-side validation failures by field.",
		}, []string{"field"}),
		CatalogCacheTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_gateway_catalog_cache_total",
			Help: "Payment method catalog cache lookups.",
		}, []string{"result"}),
		WSConnections: f.NewGauge(prometheus.GaugeOpts{
			Name: "wallet_gateway_ws_connections",
			Help: "Open websocket connections.",
		}),
	}
}

func (m *Metrics) ObserveUpstream(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.UpstreamRequestsTotal.WithLabelValues(operation, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveWithdrawal(method, state string, baseAmount decimal.Decimal) {
	if m == nil {
		return
	}
	m.WithdrawalsTotal.WithLabelValues(method, state).Inc()
	if state == "succeeded" {
		m.WithdrawalAmountTotal.WithLabelValues(method).Add(baseAmount.InexactFloat64())
	}
}

func (m *Metrics) ObserveValidation(fields []string) {
	if m == nil {
		return
	}
	for _, field := range fields {
		m.ValidationFailures.WithLabelValues(field).Inc()
	}
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CatalogCacheTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) WSConnected() {
	if m != nil {
		m.WSConnections.Inc()
	}
}

func (m *Metrics) WSDisconnected() {
	if m != nil {
		m.WSConnections.Dec()
	}
}

// Middleware считает запросы по шаблону маршрута; несопоставленные маршруты не учитываются.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		if m == nil || path == "" {
			return
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
