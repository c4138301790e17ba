package auth

import (
	"context"
	"log/slog"
	"time"

	"lucy-college/internal/metrics"
)

// RevocationPruner periodically deletes expired revocation records.
type RevocationPruner struct {
	ledger   Pruner
	metrics  *metrics.Metrics
	logger   *slog.Logger
	interval time.Duration
}

func NewRevocationPruner(ledger Pruner, m *metrics.Metrics, logger *slog.Logger, interval time.Duration) *RevocationPruner {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RevocationPruner{
		ledger:   ledger,
		metrics:  m,
		logger:   logger,
		interval: interval,
	}
}

// Start blocks until ctx is cancelled, pruning once immediately and then every interval.
func (p *RevocationPruner) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("revocation pruner started", slog.Duration("interval", p.interval))
	p.PruneOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("revocation pruner stopped")
			return
		case <-ticker.C:
			p.PruneOnce(ctx)
		}
	}
}

func (p *RevocationPruner) PruneOnce(ctx context.Context) {
	removed, err := p.ledger.Prune(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("failed to prune revoked tokens", slog.String("error", err.Error()))
		}
		return
	}

	p.metrics.RecordRevocationsPruned(ctx, removed)
	if removed > 0 {
		p.logger.Info("pruned expired revoked tokens", slog.Int64("removed", removed))
	}
}
