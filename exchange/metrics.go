package exchange

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchbox_orders_submitted_total",
		Help: "Orders accepted by the matching worker.",
	})
	tradesExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchbox_trades_executed_total",
		Help: "Individual crossings produced by matching.",
	})
	volumeMatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchbox_volume_matched_total",
		Help: "Total quantity matched across all trades.",
	})
	feedDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchbox_feed_dropped_total",
		Help: "Trades dropped from the broadcast feed by slow consumers.",
	})
)
