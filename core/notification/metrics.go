package notification

import "github.com/prometheus/client_golang/prometheus"

var (
	notificationsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lms", Name: "notifications_sent_total", Help: "Notifications created, by category",
	}, []string{"category"})
	notificationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lms", Name: "notification_failures_total", Help: "Failed notification deliveries, by category",
	}, []string{"category"})
)

func init() {
	prometheus.MustRegister(notificationsSent, notificationFailures)
}
