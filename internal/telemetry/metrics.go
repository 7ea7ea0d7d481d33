// Package telemetry exposes Prometheus counters for the intake, notification
// and export paths.
package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	SubmissionsReceived  = prometheus.NewCounter(prometheus.CounterOpts{Name: "ats_submissions_received_total", Help: "Form submissions received across all sources"})
	SubmissionsDiscarded = prometheus.NewCounter(prometheus.CounterOpts{Name: "ats_submissions_discarded_total", Help: "Submissions dropped at intake (unresolvable job or missing applicant fields)"})
	ApplicationsCreated  = prometheus.NewCounter(prometheus.CounterOpts{Name: "ats_applications_created_total", Help: "Applications persisted"})
	NotificationsSent    = prometheus.NewCounter(prometheus.CounterOpts{Name: "ats_notifications_sent_total", Help: "Notification emails delivered to the transport"})
	NotificationsFailed  = prometheus.NewCounter(prometheus.CounterOpts{Name: "ats_notifications_failed_total", Help: "Notification emails that failed to send"})
	ExportsStarted       = prometheus.NewCounter(prometheus.CounterOpts{Name: "ats_exports_total", Help: "CSV exports served"})
	RateLimitRejects     = prometheus.NewCounter(prometheus.CounterOpts{Name: "ats_rate_limit_rejects_total", Help: "Requests rejected by the rate limiter"})
)

// Handler exposes the /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			SubmissionsReceived,
			SubmissionsDiscarded,
			ApplicationsCreated,
			NotificationsSent,
			NotificationsFailed,
			ExportsStarted,
			RateLimitRejects,
		)
	})
	return promhttp.Handler()
}
