// Package metrics holds Prometheus instruments for store commands. HTTP
// request metrics live in pkg/middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var commandsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_store_commands_total",
		Help: "Total number of store commands by store, command, and outcome",
	},
	[]string{"store", "command", "outcome"},
)

// RecordCommand increments the command counter with an ok/error outcome.
func RecordCommand(store, command string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	commandsTotal.WithLabelValues(store, command, outcome).Inc()
}
