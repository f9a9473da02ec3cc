package lifecyclesvc

import "sync"

// orderLocks serializes status mutations per order id. TryAcquire fails
// instead of blocking, so a caller racing an in-flight transition gets a
// conflict it can retry rather than a queue it cannot observe. Mutations on
// different orders never contend.
//
// Entries are refcounted and dropped from the map once nobody holds or is
// probing them, so the map tracks in-flight mutations, not every order id
// ever mutated.
type orderLocks struct {
	mu    sync.Mutex
	locks map[int64]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newOrderLocks() *orderLocks {
	return &orderLocks{
		locks: make(map[int64]*lockEntry),
	}
}

func (l *orderLocks) retain(orderID int64) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.locks[orderID]
	if !ok {
		entry = &lockEntry{}
		l.locks[orderID] = entry
	}
	entry.refs++

	return entry
}

func (l *orderLocks) release(orderID int64, entry *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, orderID)
	}
}

// TryAcquire takes the mutation right for an order. The returned release
// function must be called exactly once when the mutation resolves.
func (l *orderLocks) TryAcquire(orderID int64) (release func(), ok bool) {
	entry := l.retain(orderID)
	if !entry.mu.TryLock() {
		l.release(orderID, entry)

		return nil, false
	}

	return func() {
		entry.mu.Unlock()
		l.release(orderID, entry)
	}, true
}
