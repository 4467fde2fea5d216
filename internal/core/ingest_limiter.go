package core

// ingest_limiter.go bounds how many spreadsheet files are parsed at once.
//
// Parsing a workbook holds the whole file in memory, so parallel ingests are
// restricted to a fixed number of slots. When every slot is taken, new
// requests wait up to maxWait before failing with ErrTooManyIngests.
//
// WaitForDrain blocks until active ingests finish and is used on shutdown.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyIngests is returned when all ingest slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManyIngests = errors.New("too many ingests in progress, please try again later")

// DefaultMaxConcurrentIngests is the default limit for parallel parsing.
const DefaultMaxConcurrentIngests = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 15 * time.Second

// IngestLimiter controls concurrent file parsing using a semaphore.
type IngestLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewIngestLimiter creates a limiter that allows at most maxConcurrent
// simultaneous ingests. Requests that cannot acquire a slot within maxWait
// receive ErrTooManyIngests.
func NewIngestLimiter(maxConcurrent int, maxWait time.Duration) *IngestLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentIngests
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &IngestLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for an ingest slot.
// The caller MUST call Release() when parsing completes (use defer).
func (l *IngestLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-timer.C:
		return ErrTooManyIngests

	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire attempts to acquire a slot without blocking.
func (l *IngestLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release releases a previously acquired slot.
// Must be called exactly once for each successful Acquire/TryAcquire.
func (l *IngestLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of ingests currently parsing.
func (l *IngestLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the maximum allowed concurrent ingests.
func (l *IngestLimiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

// Available returns the number of free slots.
func (l *IngestLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until all active ingests complete or ctx is done.
func (l *IngestLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// IngestLimiterStatus is a snapshot of the limiter's state.
type IngestLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status returns the current limiter state for the health endpoint.
func (l *IngestLimiter) Status() IngestLimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return IngestLimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
