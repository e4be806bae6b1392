package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Compensating side effects (stock reversal on order delete, usage
// decrement on instance delete) never block the primary operation, so
// their failures are only visible here and in the logs.
var (
	ReconciliationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "labstock_reconciliation_failures_total",
		Help: "Best-effort stock reconciliation calls that failed without blocking the primary operation.",
	}, []string{"operation"})

	LowStockAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labstock_low_stock_alerts_total",
		Help: "Stock records dispatched to the low-stock notification pool.",
	})

	PushSendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labstock_push_send_failures_total",
		Help: "Web push notifications that could not be delivered.",
	})
)
