package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// OAuth metric names
const (
	MetricNameOAuthExchangesTotal     = "osulink_oauth_exchanges_total"
	MetricNameOAuthRefreshesTotal     = "osulink_oauth_refreshes_total"
	MetricNameGateAuthorizationsTotal = "osulink_gate_authorizations_total"
	MetricNameAccountLinkActionsTotal = "osulink_account_link_actions_total"
)

// Upstream metric names
const (
	MetricNameUpstreamRequestsTotal   = "osulink_upstream_requests_total"
	MetricNameUpstreamRequestDuration = "osulink_upstream_request_duration_seconds"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// OAuth metric help text
const (
	HelpTextOAuthExchangesTotal     = "Total number of authorization code exchanges"
	HelpTextOAuthRefreshesTotal     = "Total number of token refresh attempts"
	HelpTextGateAuthorizationsTotal = "Total number of gate authorization decisions"
	HelpTextAccountLinkActionsTotal = "Total number of account link actions"
)

// Upstream metric help text
const (
	HelpTextUpstreamRequestsTotal   = "Total number of requests to upstream APIs"
	HelpTextUpstreamRequestDuration = "Upstream API latency in seconds"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelResult  = "result"
	LabelAction  = "action"
	LabelService = "service"
)

// ============================================================================
// Label Values
// ============================================================================

// Result label values
const (
	ResultSuccess      = "success"
	ResultFailure      = "failure"
	ResultRejected     = "rejected"
	ResultSkipped      = "skipped"
	ResultNotLinked    = "not_linked"
	ResultExpired      = "expired"
	ResultMissingScope = "missing_scope"
	ResultConflict     = "conflict"
)

// Link action label values
const (
	ActionBegin    = "begin"
	ActionComplete = "complete"
	ActionUnlink   = "unlink"
)

// StatusTransportError labels upstream calls that never got a response
const StatusTransportError = "transport_error"

// UnmatchedRoute labels requests that no route matched
const UnmatchedRoute = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
