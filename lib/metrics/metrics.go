package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFail    = "fail"
	OutcomeNetwork = "network"
	OutcomeAuth    = "unauthorized"
)

var (
	RemoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ats_remote_requests_total",
			Help: "Total number of requests to the remote ATS by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	RemoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ats_remote_request_duration_seconds",
			Help: "Duration of requests to the remote ATS in seconds",
		},
		[]string{"operation"},
	)

	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ats_token_refresh_total",
			Help: "Total number of access token refresh attempts",
		},
		[]string{"outcome"},
	)

	WorkflowOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_workflow_total",
			Help: "Total number of pipeline workflow runs by outcome",
		},
		[]string{"workflow", "outcome"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_active_sessions",
			Help: "Number of recruiter sessions",
		},
	)
)

func Workflow(workflow string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFail
	}
	WorkflowOutcomes.WithLabelValues(workflow, outcome).Inc()
}
