package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ordersConfirmed counts the total number of confirmed orders.
	ordersConfirmed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_confirmed_total",
			Help: "Total number of confirmed orders",
		},
		[]string{"fulfillment_type", "payment_method"},
	)

	// orderValueCents observes the grand total of confirmed orders in cents.
	orderValueCents = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_value_cents",
			Help:    "Grand total of confirmed orders in cents",
			Buckets: prometheus.ExponentialBuckets(100, 2.5, 10),
		},
	)

	// checkoutRejections counts submissions rejected before settlement.
	checkoutRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_rejections_total",
			Help: "Total number of checkout submissions rejected before settlement",
		},
		[]string{"reason"},
	)
)
