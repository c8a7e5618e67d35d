package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "realty"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// LoginAttempts result: success|invalid_credentials|bad_request|throttled|misconfigured
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "login_attempts_total", Help: "Admin login attempts by result."},
		[]string{"result"},
	)
	// GateDecisions decision: pass|redirect_login|redirect_home|redirect_login_cleared
	GateDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "session_gate_decisions_total", Help: "Route protection outcomes."},
		[]string{"decision"},
	)
	LeadsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "leads_submitted_total", Help: "Leads recorded by kind."},
		[]string{"kind"},
	)
	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "emails_sent_total", Help: "Notification emails by result."},
		[]string{"result"},
	)
	Uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "uploads_total", Help: "Upload service operations by op and result."},
		[]string{"op", "result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(GateDecisions)
	reg.MustRegister(LeadsSubmitted)
	reg.MustRegister(EmailsSent)
	reg.MustRegister(Uploads)
}
