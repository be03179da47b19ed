package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_created_total",
		Help: "Total number of orders created from carts",
	})

	OrdersPaidTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_paid_total",
		Help: "Total number of orders confirmed as paid",
	})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_cancelled_total",
		Help: "Total number of cancelled orders",
	})

	CartItemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_items_added_total",
		Help: "Total number of add-to-cart calls that succeeded",
	})

	CommitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_unit_of_work_commits_total",
		Help: "Unit of work commits by outcome",
	}, []string{"outcome"})
)
