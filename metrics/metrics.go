// Package metrics provides Prometheus metrics for the GitHub billing backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GitHubRequestsTotal tracks outbound GitHub API requests by endpoint and status code
	GitHubRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flexile",
			Subsystem: "github_client",
			Name:      "requests_total",
			Help:      "Total number of outbound GitHub requests",
		},
		[]string{"endpoint", "status_code"},
	)

	// GitHubRequestDuration tracks outbound GitHub request duration
	GitHubRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flexile",
			Subsystem: "github_client",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound GitHub requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	// PRInfoResolutionsTotal tracks PR info resolutions by outcome
	// (invalid, no_pr_info, pr_info, error)
	PRInfoResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flexile",
			Subsystem: "pr_info",
			Name:      "resolutions_total",
			Help:      "Total number of PR info resolutions by outcome",
		},
		[]string{"outcome"},
	)

	// GitHubConnectionsTotal tracks account linking attempts by result
	GitHubConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flexile",
			Subsystem: "github_accounts",
			Name:      "connections_total",
			Help:      "Total number of GitHub account connection attempts by result",
		},
		[]string{"result"},
	)
)

const (
	OutcomeInvalid  = "invalid"
	OutcomeNoPRInfo = "no_pr_info"
	OutcomePRInfo   = "pr_info"
	OutcomeError    = "error"
)
