// Package sweeper evicts expired notes on a fixed schedule.
package sweeper

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/burnnote-go/internal/messaging"
	"github.com/serroba/burnnote-go/internal/metrics"
	"github.com/serroba/burnnote-go/internal/note"
	"github.com/serroba/burnnote-go/internal/stats"
	"go.uber.org/zap"
)

// Sweeper periodically removes notes that outlived the ttl. A sweep that
// fails is logged and retried on the next tick; the schedule never stops
// on errors.
type Sweeper struct {
	vault    *note.Vault
	ttl      time.Duration
	interval time.Duration
	publish  messaging.Publish[stats.SweepCompletedEvent]
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a sweeper. An interval of zero or less disables sweeping.
func New(
	vault *note.Vault,
	ttl time.Duration,
	interval time.Duration,
	publish messaging.Publish[stats.SweepCompletedEvent],
	logger *zap.Logger,
) *Sweeper {
	return &Sweeper{
		vault:    vault,
		ttl:      ttl,
		interval: interval,
		publish:  publish,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. With sweeping disabled it logs and returns
// without starting anything.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info("expiry sweeping disabled")

		return nil
	}

	if s.ttl <= 0 {
		return errors.New("note ttl must be positive when sweeping is enabled")
	}

	ctx, s.cancel = context.WithCancel(ctx)

	go s.run(ctx)

	s.logger.Info("sweeper started",
		zap.Duration("interval", s.interval),
		zap.Duration("ttl", s.ttl),
	)

	return nil
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("expiry sweep failed", zap.Error(err))
			}
		}
	}
}

// RunOnce performs a single sweep pass and reports how many notes it
// removed. Sweeps that remove nothing publish no event.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	removed, err := s.vault.SweepExpired(ctx, s.ttl)
	if err != nil {
		metrics.SweepFailures.Inc()

		return 0, err
	}

	if removed > 0 {
		s.logger.Info("expired notes removed", zap.Int("removed", removed))
		s.publishCompleted(removed)
	}

	return removed, nil
}

func (s *Sweeper) publishCompleted(removed int) {
	event := &stats.SweepCompletedEvent{
		Removed: removed,
		TTL:     s.ttl,
		SweptAt: time.Now(),
	}

	if err := s.publish(event); err != nil {
		s.logger.Warn("failed to publish sweep completed event", zap.Error(err))
	}
}

// Shutdown stops the sweep loop and waits for it to exit. Safe to call when
// the sweeper never started.
func (s *Sweeper) Shutdown() error {
	if s.cancel == nil {
		return nil
	}

	s.cancel()
	<-s.done

	return nil
}
