package httptransport

import "expvar"

var (
	metricAdminActionsTotal = expvar.NewInt("http_admin_actions_total")
	metricAdminActionErrors = expvar.NewInt("http_admin_action_errors_total")

	metricSSEConnectionsTotal  = expvar.NewInt("auction_sse_connections_total")
	metricSSEConnectionsActive = expvar.NewInt("auction_sse_connections_active")
	metricSSEReplayedEvents    = expvar.NewInt("auction_sse_replayed_events_total")
)
