package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// Metrics holds the Prometheus collectors of the registry client
type Metrics struct {
	Registry *prometheus.Registry

	Transactions        *prometheus.CounterVec
	TransactionDuration *prometheus.HistogramVec
	ModulesDeployed     *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
}

// New creates the collectors on a dedicated registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Transactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zdao_transactions_total",
			Help: "Transactions sent to the registry system by operation and status",
		}, []string{"operation", "status"}),
		TransactionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zdao_transaction_duration_seconds",
			Help:    "Time spent executing registry transactions",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		ModulesDeployed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zdao_modules_deployed_total",
			Help: "Module clones deployed by deployModules, by module",
		}, []string{"module"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zdao_http_requests_total",
			Help: "Read API requests by route and status code",
		}, []string{"route", "code"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zdao_http_request_duration_seconds",
			Help:    "Read API request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveTransaction records the outcome and latency of one transaction
func (m *Metrics) ObserveTransaction(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "reverted"
	}
	m.Transactions.WithLabelValues(operation, status).Inc()
	m.TransactionDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// AddModulesDeployed increments the clone counter of a module
func (m *Metrics) AddModulesDeployed(module string, count int) {
	m.ModulesDeployed.WithLabelValues(module).Add(float64(count))
}

// ObserveRequest records one served API request
func (m *Metrics) ObserveRequest(route string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Ensure Metrics implements MetricsRecorder
var _ usecase.MetricsRecorder = (*Metrics)(nil)
