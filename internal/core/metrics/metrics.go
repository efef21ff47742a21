package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinic_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	phiDecryptFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_phi_decrypt_failures_total",
			Help: "Encrypted column values that could not be decrypted and were blanked",
		},
		[]string{"table", "column"},
	)

	permissionChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_permission_changes_total",
			Help: "Permission grants and revocations",
		},
		[]string{"action", "subject"},
	)

	authAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_auth_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"status"},
	)

	registerOnce sync.Once
)

// Register adds the clinic collectors to the default registry. Safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			phiDecryptFailures,
			permissionChangesTotal,
			authAttemptsTotal,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func IncPHIDecryptFailure(table, column string) {
	phiDecryptFailures.WithLabelValues(table, column).Inc()
}

func IncPermissionChange(action, subject string) {
	permissionChangesTotal.WithLabelValues(action, subject).Inc()
}

func IncAuthAttempt(status string) {
	authAttemptsTotal.WithLabelValues(status).Inc()
}

// PHIDecryptFailures exposes the counter for tests.
func PHIDecryptFailures(table, column string) prometheus.Counter {
	return phiDecryptFailures.WithLabelValues(table, column)
}

// PermissionChanges exposes the counter for tests.
func PermissionChanges(action, subject string) prometheus.Counter {
	return permissionChangesTotal.WithLabelValues(action, subject)
}
