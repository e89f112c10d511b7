package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"tburn-scan.backend/pkg/logger"
)

// ConnectionChecker probes chain RPC reachability. Satisfied by the token
// factory usecase.
type ConnectionChecker interface {
	CheckConnection(ctx context.Context) (bool, uint64)
}

// ChainHealthJob polls the chain RPC endpoint so the factory status and
// the connectivity gauge stay current even when no requests arrive.
type ChainHealthJob struct {
	checker  ConnectionChecker
	interval time.Duration
	stop     chan struct{}

	lastConnected bool
	seeded        bool
}

func NewChainHealthJob(checker ConnectionChecker) *ChainHealthJob {
	return &ChainHealthJob{
		checker:  checker,
		interval: 30 * time.Second,
		stop:     make(chan struct{}),
	}
}

func (j *ChainHealthJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting chain health job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.probe(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Chain health job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Chain health job stopped")
			return
		case <-ticker.C:
			j.probe(ctx)
		}
	}
}

func (j *ChainHealthJob) Stop() {
	close(j.stop)
}

// probe checks connectivity and logs only on transitions to keep the log
// quiet during steady state.
func (j *ChainHealthJob) probe(ctx context.Context) {
	connected, blockNumber := j.checker.CheckConnection(ctx)

	if !j.seeded || connected != j.lastConnected {
		if connected {
			logger.Info(ctx, "Chain RPC reachable", zap.Uint64("blockNumber", blockNumber))
		} else {
			logger.Warn(ctx, "Chain RPC unreachable")
		}
	}
	j.seeded = true
	j.lastConnected = connected
}
