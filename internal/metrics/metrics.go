package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// OAuth Metrics
var (
	OAuthExchangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOAuthExchangesTotal,
			Help: HelpTextOAuthExchangesTotal,
		},
		[]string{LabelResult},
	)

	OAuthRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOAuthRefreshesTotal,
			Help: HelpTextOAuthRefreshesTotal,
		},
		[]string{LabelResult},
	)

	GateAuthorizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGateAuthorizationsTotal,
			Help: HelpTextGateAuthorizationsTotal,
		},
		[]string{LabelResult},
	)

	AccountLinkActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAccountLinkActionsTotal,
			Help: HelpTextAccountLinkActionsTotal,
		},
		[]string{LabelAction, LabelResult},
	)
)

// Upstream Metrics
var (
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUpstreamRequestsTotal,
			Help: HelpTextUpstreamRequestsTotal,
		},
		[]string{LabelService, LabelStatus},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameUpstreamRequestDuration,
			Help:    HelpTextUpstreamRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelService},
	)
)
