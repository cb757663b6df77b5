package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CommandCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adachi_commands_total",
			Help: "Count of processed commands",
		},
		[]string{"command", "status"}, // ok, error
	)
	VerdictCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adachi_verdicts_total",
			Help: "Count of verdicts handed out by the ask command",
		},
		[]string{"verdict"},
	)
	Guilds = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "adachi_guilds",
			Help: "Last observed number of guilds",
		},
		[]string{"shard_id"},
	)
)

func init() {
	prometheus.MustRegister(
		CommandCounter,
		VerdictCounter,
		Guilds,
	)
}
