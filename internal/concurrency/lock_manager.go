package concurrency

import (
	"context"
	"sync"
)

// keyLock is a one-slot semaphore shared by everyone holding or waiting on
// the same key.
type keyLock struct {
	sem  chan struct{}
	refs int
}

// LockManager serializes work per key, usually a platform id. Keys are
// dropped as soon as nobody holds or waits on them, so the table only
// grows with concurrent activity.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

// NewLockManager creates an empty LockManager
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*keyLock)}
}

func (lm *LockManager) acquire(key string) *keyLock {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	l, ok := lm.locks[key]
	if !ok {
		l = &keyLock{sem: make(chan struct{}, 1)}
		lm.locks[key] = l
	}
	l.refs++
	return l
}

func (lm *LockManager) release(key string, l *keyLock) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(lm.locks, key)
	}
}

func (lm *LockManager) unlocker(key string, l *keyLock) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.sem
			lm.release(key, l)
		})
	}
}

// Lock blocks until the key is free and returns its unlock func. Calling
// the unlock func more than once is a no-op.
//
//	unlock := locks.Lock(platformID)
//	defer unlock()
func (lm *LockManager) Lock(key string) func() {
	l := lm.acquire(key)
	l.sem <- struct{}{}
	return lm.unlocker(key, l)
}

// LockContext is Lock that gives up when ctx is done
func (lm *LockManager) LockContext(ctx context.Context, key string) (func(), error) {
	l := lm.acquire(key)
	select {
	case l.sem <- struct{}{}:
		return lm.unlocker(key, l), nil
	case <-ctx.Done():
		lm.release(key, l)
		return nil, ctx.Err()
	}
}

// size reports how many keys are currently held or awaited
func (lm *LockManager) size() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}
