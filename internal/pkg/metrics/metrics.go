package metrics

import "github.com/prometheus/client_golang/prometheus"

// Result label values
const (
	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultExpired = "expired"
	ResultError   = "error"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OTPIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_issued_total",
			Help: "Total number of one-time codes issued.",
		},
		[]string{"result"},
	)

	OTPVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verifications_total",
			Help: "Total number of one-time code verification attempts.",
		},
		[]string{"result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of password login attempts.",
		},
		[]string{"result"},
	)

	OTPPurgedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "otp_purged_total",
			Help: "Total number of stale one-time code records deleted.",
		},
	)
)

// MustRegister registers every collector on reg, labelled with the service name
func MustRegister(reg prometheus.Registerer, serviceName string) {
	wrapped := prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, reg)
	wrapped.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		OTPIssuedTotal,
		OTPVerificationsTotal,
		LoginsTotal,
		OTPPurgedTotal,
	)
}
