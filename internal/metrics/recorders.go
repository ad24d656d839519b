package metrics

import (
	"strconv"
	"time"
)

// RecordExchange counts one authorization code exchange
func RecordExchange(result string) {
	OAuthExchangesTotal.WithLabelValues(result).Inc()
}

// RecordRefresh counts one refresh attempt
func RecordRefresh(result string) {
	OAuthRefreshesTotal.WithLabelValues(result).Inc()
}

// RecordAuthorization counts one gate decision
func RecordAuthorization(result string) {
	GateAuthorizationsTotal.WithLabelValues(result).Inc()
}

// RecordLinkAction counts begin/complete/unlink outcomes
func RecordLinkAction(action, result string) {
	AccountLinkActionsTotal.WithLabelValues(action, result).Inc()
}

// RecordUpstream records one upstream call. status 0 means transport failure.
func RecordUpstream(service string, status int, elapsed time.Duration) {
	label := strconv.Itoa(status)
	if status == 0 {
		label = StatusTransportError
	}
	UpstreamRequestsTotal.WithLabelValues(service, label).Inc()
	UpstreamRequestDuration.WithLabelValues(service).Observe(elapsed.Seconds())
}
