package form

import (
	"context"
	"errors"
	"sync"
)

// ErrSubmitInProgress is returned when a submit for the same form is already running.
var ErrSubmitInProgress = errors.New("employee submit already in progress")

// SubmitLock serializes submits that share a key, possibly across console
// replicas. TryLock never blocks: it fails with ErrSubmitInProgress when the
// key is held.
type SubmitLock interface {
	TryLock(ctx context.Context, key string) (unlock func(), err error)
}

// LocalLock is an in-process SubmitLock.
type LocalLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalLock returns an empty lock table.
func NewLocalLock() *LocalLock {
	return &LocalLock{held: make(map[string]struct{})}
}

// TryLock implements SubmitLock.
func (l *LocalLock) TryLock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return nil, ErrSubmitInProgress
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
