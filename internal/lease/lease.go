package lease

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	"flickr_syncer/internal/domain"
)

// Store is the durable, strongly-consistent primitive the manager runs on.
type Store interface {
	TryAcquire(ctx context.Context, name, holder string) (bool, error)
	Release(ctx context.Context, name, holder string) error
}

// RetryPolicy bounds the release retry loop.
type RetryPolicy struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy retries release up to 10 times, backing off from 1s up
// to 60s between attempts.
var DefaultRetryPolicy = RetryPolicy{
	MaxTries:        10,
	InitialInterval: 1 * time.Second,
	MaxInterval:     60 * time.Second,
}

// Manager provides cross-instance mutual exclusion for sync runs. Acquire is
// non-blocking: overlapping schedule ticks that lose the race skip their run
// instead of queuing. A holder that dies mid-run leaves the lease held until
// an operator clears it; the manager never steals.
type Manager struct {
	store  Store
	name   string
	holder string
	policy RetryPolicy
	logger *slog.Logger
}

func NewManager(store Store, name string, policy RetryPolicy, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		name:   name,
		holder: uuid.NewString(),
		policy: policy,
		logger: logger.With("lease", name),
	}
}

// Acquire attempts to take the lease, returning false immediately when
// another run holds it.
func (m *Manager) Acquire(ctx context.Context) (bool, error) {
	granted, err := m.store.TryAcquire(ctx, m.name, m.holder)
	if err != nil {
		return false, err
	}
	if granted {
		m.logger.Debug("lease acquired", "holder", m.holder)
	}
	return granted, nil
}

// Release returns the lease, retrying transient store failures with bounded
// exponential backoff. Exhausting the retries is escalated as a lease
// release error: an un-released lease wedges every future run, so the caller
// must treat it as fatal at process level.
func (m *Manager) Release(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = m.policy.InitialInterval
	bo.MaxInterval = m.policy.MaxInterval
	bo.Multiplier = 2

	attempt := 0
	operation := func() (struct{}, error) {
		attempt++
		err := m.store.Release(ctx, m.name, m.holder)
		if err != nil {
			m.logger.Warn("lease release failed", "attempt", attempt, "error", err)
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(m.policy.MaxTries),
	)
	if err != nil {
		return domain.E(domain.KindLeaseRelease,
			"lease %q not released after %d attempts: %w; manual intervention required",
			m.name, attempt, err)
	}

	m.logger.Debug("lease released", "holder", m.holder)
	return nil
}
