package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errLoaderFailed = errors.New("loader failed")

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute, 10)
	base := time.Now()
	store.now = func() time.Time { return base }

	store.Set(context.Background(), "k", "v")
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatal("expected cache hit before expiry")
	}

	store.now = func() time.Time { return base.Add(time.Minute + time.Second) }
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("expected cache miss after ttl")
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired entry to be dropped, got len=%d", store.Len())
	}
}

func TestStore_CapacityEvictsOldest(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour, 3)
	base := time.Now()
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	store.Set(context.Background(), "first", 1)
	store.Set(context.Background(), "second", 2)
	store.Set(context.Background(), "third", 3)
	store.Set(context.Background(), "fourth", 4)

	if store.Len() != 3 {
		t.Fatalf("expected capacity 3, got len=%d", store.Len())
	}
	if _, ok := store.Get(context.Background(), "first"); ok {
		t.Fatal("expected oldest entry to be evicted")
	}
	if _, ok := store.Get(context.Background(), "fourth"); !ok {
		t.Fatal("expected newest entry to survive eviction")
	}
}

func TestStore_OverwriteDoesNotEvict(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour, 2)
	store.Set(context.Background(), "a", 1)
	store.Set(context.Background(), "b", 2)
	store.Set(context.Background(), "a", 3)

	if store.Len() != 2 {
		t.Fatalf("expected len=2 after overwrite, got %d", store.Len())
	}
	v, ok := store.Get(context.Background(), "a")
	if !ok || v.(int) != 3 {
		t.Fatalf("expected overwritten value 3, got %v ok=%v", v, ok)
	}
}

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute, 50)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errLoaderFailed
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected single loader call, got %d", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute, 50)
	var calls atomic.Int32

	failing := func(context.Context) (any, error) {
		calls.Add(1)
		return nil, errLoaderFailed
	}

	if _, err := store.GetOrLoad(context.Background(), "k", failing); !errors.Is(err, errLoaderFailed) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", failing); !errors.Is(err, errLoaderFailed) {
		t.Fatalf("expected loader error on retry, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected loader re-invoked after error, calls=%d", got)
	}
}
