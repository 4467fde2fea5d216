package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestIngestLimiter_AcquireRelease(t *testing.T) {
	limiter := NewIngestLimiter(2, time.Second)
	ctx := context.Background()

	if got := limiter.Available(); got != 2 {
		t.Errorf("initial Available = %d, want 2", got)
	}

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}
	if got := limiter.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount = %d, want 2", got)
	}
	if got := limiter.Available(); got != 0 {
		t.Errorf("Available = %d, want 0", got)
	}

	limiter.Release()
	limiter.Release()

	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("after Release, ActiveCount = %d, want 0", got)
	}
}

func TestIngestLimiter_TimesOutWhenFull(t *testing.T) {
	limiter := NewIngestLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release()

	start := time.Now()
	err := limiter.Acquire(ctx)
	if !errors.Is(err, ErrTooManyIngests) {
		t.Fatalf("expected ErrTooManyIngests, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("Acquire returned after %v, expected to wait", elapsed)
	}
}

func TestIngestLimiter_ContextCancelled(t *testing.T) {
	limiter := NewIngestLimiter(1, time.Minute)
	if !limiter.TryAcquire() {
		t.Fatal("TryAcquire on empty limiter failed")
	}
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestIngestLimiter_TryAcquire(t *testing.T) {
	limiter := NewIngestLimiter(1, time.Second)

	if !limiter.TryAcquire() {
		t.Fatal("first TryAcquire should succeed")
	}
	if limiter.TryAcquire() {
		t.Error("second TryAcquire should fail")
	}
	limiter.Release()
	if !limiter.TryAcquire() {
		t.Error("TryAcquire after Release should succeed")
	}
	limiter.Release()
}

func TestIngestLimiter_Defaults(t *testing.T) {
	limiter := NewIngestLimiter(0, 0)
	if got := limiter.MaxConcurrent(); got != DefaultMaxConcurrentIngests {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentIngests)
	}
	if limiter.maxWait != DefaultMaxWaitTime {
		t.Errorf("maxWait = %v, want %v", limiter.maxWait, DefaultMaxWaitTime)
	}
}

func TestIngestLimiter_Concurrent(t *testing.T) {
	limiter := NewIngestLimiter(3, time.Second)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		maxSeen int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(ctx); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			mu.Lock()
			if n := limiter.ActiveCount(); n > maxSeen {
				maxSeen = n
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			limiter.Release()
		}()
	}
	wg.Wait()

	if maxSeen > 3 {
		t.Errorf("observed %d active ingests, limit is 3", maxSeen)
	}
	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("ActiveCount after all done = %d, want 0", got)
	}
}

func TestIngestLimiter_WaitForDrain(t *testing.T) {
	limiter := NewIngestLimiter(2, time.Second)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(30 * time.Millisecond)
		limiter.Release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := limiter.WaitForDrain(ctx); err != nil {
		t.Errorf("WaitForDrain error = %v", err)
	}
}

func TestIngestLimiter_WaitForDrainTimeout(t *testing.T) {
	limiter := NewIngestLimiter(1, time.Second)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer limiter.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := limiter.WaitForDrain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForDrain error = %v, want deadline exceeded", err)
	}
}

func TestIngestLimiter_Status(t *testing.T) {
	limiter := NewIngestLimiter(3, time.Second)
	limiter.TryAcquire()
	defer limiter.Release()

	st := limiter.Status()
	if st.Active != 1 || st.Available != 2 || st.MaxConcurrent != 3 {
		t.Errorf("Status = %+v", st)
	}
}
