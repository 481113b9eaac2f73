package note

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/serroba/burnnote-go/internal/metrics"
	"go.uber.org/zap"
)

const (
	// maxPutAttempts bounds id generation retries. At 21-character ids a
	// collision is already astronomically unlikely; hitting this bound
	// means the generator or the store is broken.
	maxPutAttempts = 5

	// baseBackoff is the delay before the second attempt; it doubles on
	// each further attempt.
	baseBackoff = 2 * time.Millisecond
)

// Vault is the exactly-once note service. Submissions reserve a fresh id,
// retrievals consume atomically, sweeps evict by age.
type Vault struct {
	repo     Repository
	generate Generator
	logger   *zap.Logger
	now      func() time.Time
}

// NewVault creates a new vault on top of the given repository and id generator.
func NewVault(repo Repository, generate Generator, logger *zap.Logger) *Vault {
	return &Vault{
		repo:     repo,
		generate: generate,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the vault's time source. Intended for tests.
func (v *Vault) WithClock(now func() time.Time) *Vault {
	if now != nil {
		v.now = now
	}

	return v
}

// Submit stores the blob under a freshly generated id and returns the stored
// note. Id collisions are retried with backoff up to maxPutAttempts; if every
// attempt collides the error wraps ErrExhaustedRetries and nothing is stored.
func (v *Vault) Submit(ctx context.Context, blob []byte) (*Note, error) {
	if len(blob) == 0 {
		return nil, ErrEmptyBlob
	}

	for attempt := 1; attempt <= maxPutAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, baseBackoff<<(attempt-2)); err != nil {
				return nil, err
			}
		}

		n := &Note{
			ID:        v.generate(),
			Blob:      blob,
			CreatedAt: v.now(),
		}

		err := v.repo.PutIfAbsent(ctx, n)
		if err == nil {
			metrics.NotesStored.Inc()
			v.refreshLive(ctx)

			return n, nil
		}

		if !errors.Is(err, ErrIDTaken) {
			return nil, err
		}

		metrics.IDCollisions.Inc()
		v.logger.Warn("note id collision",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxPutAttempts),
		)
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrExhaustedRetries, maxPutAttempts)
}

// Retrieve consumes the note with the given id. The first caller gets the
// note and destroys it in the same step; every later caller gets ErrNotFound.
func (v *Vault) Retrieve(ctx context.Context, id ID) (*Note, error) {
	n, err := v.repo.Take(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.NotesConsumed.Inc()
	v.refreshLive(ctx)

	return n, nil
}

// SweepExpired evicts every note older than ttl and reports how many were
// removed. A note consumed between sweeps is gone already and never counted.
func (v *Vault) SweepExpired(ctx context.Context, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, fmt.Errorf("ttl must be positive, got %s", ttl)
	}

	removed, err := v.repo.DeleteOlderThan(ctx, v.now().Add(-ttl))
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		metrics.NotesSwept.Add(float64(removed))
	}

	v.refreshLive(ctx)

	return removed, nil
}

// Live reports the number of notes currently held.
func (v *Vault) Live(ctx context.Context) (int, error) {
	return v.repo.Len(ctx)
}

func (v *Vault) refreshLive(ctx context.Context) {
	if n, err := v.repo.Len(ctx); err == nil {
		metrics.NotesLive.Set(float64(n))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
