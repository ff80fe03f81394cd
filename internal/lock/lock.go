// Package lock provides named, expiring locks for callers that must not run
// the same work twice at once, such as two sync runs for one app.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotAcquired is returned when the lock is held by someone else
var ErrNotAcquired = errors.New("lock is held by another owner")

// Factory hands out locks by key
type Factory interface {
	// Acquire takes key for at most ttl. It does not wait: a held key
	// returns ErrNotAcquired.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// Lock is a held lock
type Lock interface {
	Key() string
	// Release frees the lock if this owner still holds it
	Release(ctx context.Context) error
}

// LocalFactory keeps locks in process memory
type LocalFactory struct {
	mu   sync.Mutex
	held map[string]localEntry
	now  func() time.Time
}

type localEntry struct {
	token   string
	expires time.Time
}

// NewLocalFactory creates an in-process lock factory
func NewLocalFactory() *LocalFactory {
	return &LocalFactory{held: make(map[string]localEntry), now: time.Now}
}

// Acquire implements Factory
func (f *LocalFactory) Acquire(_ context.Context, key string, ttl time.Duration) (Lock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	if e, ok := f.held[key]; ok && now.Before(e.expires) {
		return nil, ErrNotAcquired
	}
	token := uuid.New().String()
	f.held[key] = localEntry{token: token, expires: now.Add(ttl)}
	return &localLock{factory: f, key: key, token: token}, nil
}

type localLock struct {
	factory *LocalFactory
	key     string
	token   string
}

func (l *localLock) Key() string { return l.key }

func (l *localLock) Release(context.Context) error {
	f := l.factory
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.held[l.key]; ok && e.token == l.token {
		delete(f.held, l.key)
	}
	return nil
}
