package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aihub_orders_created_total",
		Help: "Total number of orders successfully created.",
	})

	DeliveriesSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aihub_deliveries_submitted_total",
		Help: "Total number of deliverable versions successfully submitted.",
	})

	OrdersCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aihub_orders_completed_total",
		Help: "Total number of orders completed by buyer approval.",
	})

	RevisionsRequestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aihub_revisions_requested_total",
		Help: "Total number of revision requests accepted.",
	})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aihub_orders_cancelled_total",
		Help: "Total number of orders cancelled.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aihub_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)
)
