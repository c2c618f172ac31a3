package facts

import (
	"context"
	"sync"
)

// Store persists per-conversation facts between turns. Implementations
// return sentinel.ErrNotFound for conversations that never saved facts or
// whose facts expired; callers treat that as an empty fact set.
type Store interface {
	Get(ctx context.Context, conversationID string) (*Facts, error)
	Save(ctx context.Context, conversationID string, f *Facts) error
	Delete(ctx context.Context, conversationID string) error
}

// Locker serializes turns of the same conversation. Two concurrent turns
// would otherwise read the same fact snapshot and the second save would
// drop the first turn's extraction.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*conversationLock
}

type conversationLock struct {
	sync.Mutex
	refs int
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*conversationLock)}
}

// Lock acquires the lock for conversationID and returns its release func.
func (l *Locker) Lock(conversationID string) func() {
	l.mu.Lock()
	cl, ok := l.locks[conversationID]
	if !ok {
		cl = &conversationLock{}
		l.locks[conversationID] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.Lock()
	return func() {
		cl.Unlock()
		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.locks, conversationID)
		}
		l.mu.Unlock()
	}
}
