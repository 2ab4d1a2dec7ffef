package usecase

import "sync"

// sessionLock serializes operations on the same session id.
type sessionLock struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu      sync.Mutex
	waiters int
}

func newSessionLock() *sessionLock {
	return &sessionLock{
		locks: make(map[string]*lockEntry),
	}
}

// Lock - blocks until id is free; the returned func releases it.
func (that *sessionLock) Lock(id string) func() {
	that.mu.Lock()
	entry, ok := that.locks[id]
	if !ok {
		entry = &lockEntry{}
		that.locks[id] = entry
	}
	entry.waiters++
	that.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		that.mu.Lock()
		entry.waiters--
		if entry.waiters == 0 {
			delete(that.locks, id)
		}
		that.mu.Unlock()
	}
}
