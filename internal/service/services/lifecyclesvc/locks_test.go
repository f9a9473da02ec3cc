package lifecyclesvc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (l *orderLocks) entryCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.locks)
}

func TestOrderLocks_SecondAcquireConflicts(t *testing.T) {
	locks := newOrderLocks()

	release, ok := locks.TryAcquire(1)
	require.True(t, ok)

	_, ok = locks.TryAcquire(1)
	assert.False(t, ok)

	release()

	release2, ok := locks.TryAcquire(1)
	require.True(t, ok)
	release2()
}

func TestOrderLocks_IndependentOrdersDoNotContend(t *testing.T) {
	locks := newOrderLocks()

	release1, ok := locks.TryAcquire(1)
	require.True(t, ok)
	defer release1()

	release2, ok := locks.TryAcquire(2)
	require.True(t, ok)
	defer release2()
}

func TestOrderLocks_EntryDroppedAfterRelease(t *testing.T) {
	locks := newOrderLocks()

	release, ok := locks.TryAcquire(1)
	require.True(t, ok)
	assert.Equal(t, 1, locks.entryCount())

	// A losing probe while the lock is held must not leak an entry either.
	_, ok = locks.TryAcquire(1)
	require.False(t, ok)
	assert.Equal(t, 1, locks.entryCount())

	release()
	assert.Equal(t, 0, locks.entryCount())
}

func TestOrderLocks_NoLeakUnderContention(t *testing.T) {
	locks := newOrderLocks()

	var wg sync.WaitGroup
	for orderID := int64(1); orderID <= 8; orderID++ {
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()

				if release, ok := locks.TryAcquire(id); ok {
					release()
				}
			}(orderID)
		}
	}
	wg.Wait()

	assert.Equal(t, 0, locks.entryCount())
}
