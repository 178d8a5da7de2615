package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry and the booking ledgers.
type Metrics struct {
	ResourcesCreated  prometheus.Counter
	CreateRejected    *prometheus.CounterVec
	BookingsCreated   prometheus.Counter
	BookingRejected   *prometheus.CounterVec
	Verifications     *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New registers all metrics on reg. Each registry can only hold one Metrics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ResourcesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "staybook_resources_created_total",
			Help: "Total number of resources minted by the registry",
		}),
		CreateRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "staybook_resource_create_rejected_total",
			Help: "Resource creations rejected, by reason",
		}, []string{"reason"}),
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "staybook_bookings_created_total",
			Help: "Total number of confirmed bookings",
		}),
		BookingRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "staybook_booking_rejected_total",
			Help: "Bookings rejected, by reason",
		}, []string{"reason"}),
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "staybook_verifications_total",
			Help: "On-site verifications, by result",
		}, []string{"result"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "staybook_operation_duration_seconds",
			Help:    "Duration of registry and ledger operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// Observe records the duration of operation. Call with time.Now() taken at the start.
func (m *Metrics) Observe(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementResourcesCreated() {
	m.ResourcesCreated.Inc()
}

func (m *Metrics) IncrementCreateRejected(reason string) {
	m.CreateRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementBookingsCreated() {
	m.BookingsCreated.Inc()
}

func (m *Metrics) IncrementBookingRejected(reason string) {
	m.BookingRejected.WithLabelValues(reason).Inc()
}

// ObserveVerification counts a verify call by whether the date was booked.
func (m *Metrics) ObserveVerification(booked bool) {
	result := "unbooked"
	if booked {
		result = "booked"
	}
	m.Verifications.WithLabelValues(result).Inc()
}
