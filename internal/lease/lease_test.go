package lease

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flickr_syncer/internal/domain"
)

// memoryStore is an in-memory Store with the same conditional-update
// semantics as the postgres row.
type memoryStore struct {
	mu          sync.Mutex
	locked      bool
	holder      string
	releaseErrs int // fail this many Release calls before succeeding
	releases    int
}

func (s *memoryStore) TryAcquire(_ context.Context, _, holder string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return false, nil
	}
	s.locked = true
	s.holder = holder
	return true, nil
}

func (s *memoryStore) Release(_ context.Context, _, holder string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases++
	if s.releaseErrs > 0 {
		s.releaseErrs--
		return errors.New("coordination service unreachable")
	}
	if s.locked && s.holder == holder {
		s.locked = false
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func fastPolicy(maxTries uint) RetryPolicy {
	return RetryPolicy{
		MaxTries:        maxTries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}
}

func TestManager_MutualExclusion(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}

	first := NewManager(store, "polling", fastPolicy(3), testLogger())
	second := NewManager(store, "polling", fastPolicy(3), testLogger())

	granted, err := first.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, granted)

	// a second caller must be refused immediately while the lease is held
	granted, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, granted)

	require.NoError(t, first.Release(ctx))

	granted, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestManager_ConcurrentAcquire_ExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}

	const callers = 8
	results := make(chan bool, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := NewManager(store, "polling", fastPolicy(3), testLogger())
			granted, err := m.Acquire(ctx)
			assert.NoError(t, err)
			results <- granted
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for granted := range results {
		if granted {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestManager_ReleaseRetriesTransientFailures(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{releaseErrs: 3}
	m := NewManager(store, "polling", fastPolicy(10), testLogger())

	granted, err := m.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, granted)

	require.NoError(t, m.Release(ctx))
	assert.Equal(t, 4, store.releases)
	assert.False(t, store.locked)
}

func TestManager_ReleaseExhaustionEscalates(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{releaseErrs: 100}
	m := NewManager(store, "polling", fastPolicy(4), testLogger())

	granted, err := m.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, granted)

	err = m.Release(ctx)
	require.Error(t, err)
	assert.Equal(t, domain.KindLeaseRelease, domain.KindOf(err))
	assert.Equal(t, 4, store.releases)
	// the lease stays wedged until an operator intervenes
	assert.True(t, store.locked)
}
