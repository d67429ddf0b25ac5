// internal/service/userlock.go
package service

import "sync"

// userLocks hands out one mutex per user id. Entries are dropped once no
// goroutine holds or waits on them.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu      sync.Mutex
	waiters int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*userLock)}
}

// Lock blocks until the caller holds userID's mutex and returns its release func.
func (l *userLocks) Lock(userID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &userLock{}
		l.locks[userID] = lock
	}
	lock.waiters++
	l.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		l.mu.Lock()
		lock.waiters--
		if lock.waiters == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
