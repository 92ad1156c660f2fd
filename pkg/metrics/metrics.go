package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "receiptrelay",
			Name:      "http_requests_total",
			Help:      "Total inbound HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "code"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "receiptrelay",
			Name:      "http_request_duration_seconds",
			Help:      "Inbound HTTP request latency by route",
			Buckets: []float64{
				0.01, 0.02, 0.05, 0.1, 0.2, 0.3,
				0.5, 0.8, 1.2, 2, 3, 5, 10, 15,
			},
		},
		[]string{"route"},
	)

	VendorCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "receiptrelay",
			Name:      "vendor_calls_total",
			Help:      "Outbound verifyReceipt calls by environment and outcome",
		},
		[]string{"environment", "outcome"},
	)

	SandboxFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "receiptrelay",
			Name:      "sandbox_fallbacks_total",
			Help:      "Production responses with status 21007 that were retried against the sandbox",
		},
	)

	VerdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "receiptrelay",
			Name:      "verdicts_total",
			Help:      "Verdicts returned to callers by validity",
		},
		[]string{"valid"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		VendorCallsTotal,
		SandboxFallbacksTotal,
		VerdictsTotal,
	)
}

func IncRequest(route, method, code string) {
	HTTPRequestsTotal.WithLabelValues(route, method, code).Inc()
}

func ObserveDuration(route string, seconds float64) {
	HTTPRequestDuration.WithLabelValues(route).Observe(seconds)
}

func IncVendorCall(environment, outcome string) {
	VendorCallsTotal.WithLabelValues(environment, outcome).Inc()
}

func IncSandboxFallback() {
	SandboxFallbacksTotal.Inc()
}

func IncVerdict(valid bool) {
	if valid {
		VerdictsTotal.WithLabelValues("true").Inc()
		return
	}
	VerdictsTotal.WithLabelValues("false").Inc()
}
