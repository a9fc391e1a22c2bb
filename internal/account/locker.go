// internal/account/locker.go
package account

import (
	"sync"

	"finflow-account/internal/domain"
)

// Locker hands out one mutex per account so operations on the same account run one at a
// time inside this process. Operations on different accounts never wait on each other.
// Cross-process ordering comes from the row locks taken by the stores.
type Locker struct {
	mu    sync.Mutex
	locks map[domain.AccountID]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocker creates an empty Locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[domain.AccountID]*accountLock)}
}

// Lock blocks until the account's lock is held and returns the function releasing it.
func (l *Locker) Lock(id domain.AccountID) (unlock func()) {
	l.mu.Lock()
	al, ok := l.locks[id]
	if !ok {
		al = &accountLock{}
		l.locks[id] = al
	}
	al.refs++
	l.mu.Unlock()

	al.mu.Lock()
	return func() {
		al.mu.Unlock()

		l.mu.Lock()
		al.refs--
		if al.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// size returns the number of accounts currently locked or waited on.
func (l *Locker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
