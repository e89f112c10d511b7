// Package metrics exposes Prometheus instrumentation for the token
// factory and registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TokensRegistered counts successful registry writes by token standard
	// and deployment mode (wallet, simulation, admin).
	TokensRegistered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tburn_tokens_registered_total",
		Help: "Number of tokens registered in the token registry",
	}, []string{"standard", "mode"})

	// GasEstimateFallbacks counts gas estimations that fell back to the
	// fixed defaults because the chain RPC was unreachable.
	GasEstimateFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tburn_gas_estimate_fallback_total",
		Help: "Number of gas estimations served from fallback constants",
	})

	// DeploymentsFailed counts receipt-processing failures (reverted
	// transactions, missing creation events).
	DeploymentsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tburn_deployments_failed_total",
		Help: "Number of token deployments that failed receipt processing",
	})

	// RPCConnected reports the last observed chain RPC connectivity
	// (1 connected, 0 unreachable).
	RPCConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tburn_rpc_connected",
		Help: "Whether the chain RPC endpoint was reachable at last check",
	})
)
