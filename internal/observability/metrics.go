package observability

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activitiesCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carbon_tracker",
		Subsystem: "activities",
		Name:      "created_total",
		Help:      "Activities logged, labelled by activity type.",
	}, []string{"type"})
	achievementsAwarded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carbon_tracker",
		Subsystem: "achievements",
		Name:      "awarded_total",
		Help:      "Badges persisted, labelled by badge family.",
	}, []string{"family"})
	otpMailsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "carbon_tracker",
		Subsystem: "auth",
		Name:      "otp_mails_sent_total",
		Help:      "One-time password emails handed to the mailer.",
	})
	reportsGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "carbon_tracker",
		Subsystem: "reports",
		Name:      "pdf_generated_total",
		Help:      "Monthly PDF reports rendered.",
	})
)

func init() {
	prometheus.MustRegister(activitiesCreated, achievementsAwarded, otpMailsSent, reportsGenerated)
}

// RecordActivityCreated counts one logged activity.
func RecordActivityCreated(activityType string) {
	activitiesCreated.WithLabelValues(activityType).Inc()
}

// RecordAchievementAwarded counts one persisted badge. Weekly Champion
// titles embed the week identifier, so the label collapses them to the
// family name to keep cardinality bounded.
func RecordAchievementAwarded(title string) {
	family := title
	if i := strings.Index(title, " - "); i > 0 {
		family = title[:i]
	}
	achievementsAwarded.WithLabelValues(family).Inc()
}

// RecordOTPMailSent counts one OTP email delivery attempt.
func RecordOTPMailSent() {
	otpMailsSent.Inc()
}

// RecordReportGenerated counts one rendered PDF report.
func RecordReportGenerated() {
	reportsGenerated.Inc()
}
