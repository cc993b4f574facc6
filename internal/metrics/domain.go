package metrics

import "github.com/prometheus/client_golang/prometheus"

// Marketplace domain counters, registered alongside the HTTP collectors.
var (
	// OrderCreatedCounter counts orders accepted into the ledger
	OrderCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_orders_created_total",
			Help: "Total number of orders created",
		},
	)

	// PaymentRecordedCounter counts payments reconciled against orders
	PaymentRecordedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_payments_recorded_total",
			Help: "Total number of payments recorded",
		},
	)

	// ReviewSubmittedCounter counts accepted reviews
	ReviewSubmittedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_reviews_submitted_total",
			Help: "Total number of reviews submitted",
		},
	)

	// MerchantTransitionCounter counts merchant status transitions by target
	MerchantTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_merchant_transitions_total",
			Help: "Total number of merchant status transitions",
		},
		[]string{"status"},
	)

	// AuthErrorCounter counts authentication failures by type
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"},
	)
)

func registerDomainCollectors() {
	prometheus.MustRegister(OrderCreatedCounter)
	prometheus.MustRegister(PaymentRecordedCounter)
	prometheus.MustRegister(ReviewSubmittedCounter)
	prometheus.MustRegister(MerchantTransitionCounter)
	prometheus.MustRegister(AuthErrorCounter)
}

// RecordAuthError increments the auth error counter for the given failure type
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}
