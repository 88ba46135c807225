package runtime

import "expvar"

var (
	metricBidsTotal        = expvar.NewInt("auction_bids_total")
	metricBidsRejected     = expvar.NewInt("auction_bids_rejected_total")
	metricBidsRateLimited  = expvar.NewInt("auction_bids_rate_limited_total")
	metricSalesTotal       = expvar.NewInt("auction_sales_total")
	metricUndoTotal        = expvar.NewInt("auction_undo_total")
	metricTradesExecuted   = expvar.NewInt("auction_trades_executed_total")
	metricTimerFires       = expvar.NewInt("auction_timer_fires_total")
	metricStaleTimerFires  = expvar.NewInt("auction_stale_timer_fires_total")
	metricPersistErrors    = expvar.NewInt("auction_persist_errors_total")
	metricAuctionsLoaded   = expvar.NewInt("auction_runtimes_loaded")
	metricTradesExpired    = expvar.NewInt("auction_trades_expired_total")
)
