package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// БД
	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBIdleConnections  prometheus.Gauge
	DBWaitCount        prometheus.Gauge

	// Бизнес-метрики
	BookingAdmissions     *prometheus.CounterVec
	BookingTransitions    *prometheus.CounterVec
	NotificationDelivered *prometheus.CounterVec
	QueueDepth            *prometheus.GaugeVec
}

// New регистрирует метрики в указанном registerer.
// reg == nil - используется prometheus.DefaultRegisterer.
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency.",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),
		DBOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections.",
			ConstLabels: constLabels,
		}),
		DBInUseConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use.",
			ConstLabels: constLabels,
		}),
		DBIdleConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections.",
			ConstLabels: constLabels,
		}),
		DBWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for.",
			ConstLabels: constLabels,
		}),

		BookingAdmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_admissions_total",
			Help:        "Booking admission attempts by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		BookingTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_transitions_total",
			Help:        "Booking lifecycle transitions by target status.",
			ConstLabels: constLabels,
		}, []string{"status"}),
		NotificationDelivered: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_total",
			Help:        "Notification deliveries by kind and outcome.",
			ConstLabels: constLabels,
		}, []string{"kind", "outcome"}),
		QueueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "notification_queue_depth",
			Help:        "Jobs waiting in the notification queue.",
			ConstLabels: constLabels,
		}, []string{"queue"}),
	}
}

// ObserveHTTP фиксирует завершённый HTTP-запрос
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveQuery фиксирует выполнение SQL-запроса
func (m *Metrics) ObserveQuery(operation string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DBQueryDuration.WithLabelValues(operation, status).Observe(d.Seconds())
}

// IncAdmission outcome: admitted | full | rejected | error
func (m *Metrics) IncAdmission(outcome string) {
	m.BookingAdmissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncTransition(status string) {
	m.BookingTransitions.WithLabelValues(status).Inc()
}

// IncNotification outcome: delivered | retry | dead_letter | dropped
func (m *Metrics) IncNotification(kind, outcome string) {
	m.NotificationDelivered.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) SetQueueDepth(queue string, depth int64) {
	m.QueueDepth.WithLabelValues(queue).Set(float64(depth))
}
