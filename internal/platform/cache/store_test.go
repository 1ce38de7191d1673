package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_SharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore[[]int64](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) ([]int64, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []int64{1208021}, nil
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
			v, err := store.GetOrLoad(context.Background(), "blacklist:set", loader)
			if err != nil {
				errCh <- err
				return
			}
			if len(v) != 1 || v[0] != 1208021 {
				errCh <- errUnexpectedValue
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
		t.Fatalf("loader called %d times, want 1", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")

func TestStore_GetOrLoad_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	ctx := context.Background()
	errDown := errors.New("table unavailable")

	if _, err := store.GetOrLoad(ctx, "k", func(context.Context) (string, error) { return "", errDown }); !errors.Is(err, errDown) {
		t.Fatalf("expected load error, got %v", err)
	}
	got, err := store.GetOrLoad(ctx, "k", func(context.Context) (string, error) { return "ok", nil })
	if err != nil || got != "ok" {
		t.Fatalf("expected retry to load, got %q %v", got, err)
	}
	if _, err := store.GetOrLoad(ctx, "k", nil); err == nil {
		t.Fatalf("expected nil loader error")
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewStore[int](30 * time.Second)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "blacklist:football", 1)
	if _, ok := store.Get(context.Background(), "blacklist:football"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(31 * time.Second)
	if _, ok := store.Get(context.Background(), "blacklist:football"); ok {
		t.Fatalf("expected entry to expire")
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired entry to be evicted, len=%d", store.Len())
	}
}

func TestStore_ZeroTTLKeepsValues(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewStore[int](0)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", 7)
	now = now.Add(365 * 24 * time.Hour)
	if v, ok := store.Get(context.Background(), "k"); !ok || v != 7 {
		t.Fatalf("expected value to persist, got %d %v", v, ok)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	ctx := context.Background()
	store.Set(ctx, "match:football:today", 1)
	store.Set(ctx, "match:football:live", 2)
	store.Set(ctx, "match:basketball:today", 3)

	if n := store.DeletePrefix(ctx, "match:football:"); n != 2 {
		t.Fatalf("expected two deletions, got %d", n)
	}
	if _, ok := store.Get(ctx, "match:football:today"); ok {
		t.Fatalf("expected football key to be deleted")
	}
	if _, ok := store.Get(ctx, "match:basketball:today"); !ok {
		t.Fatalf("expected basketball key to remain")
	}
	if n := store.DeletePrefix(ctx, ""); n != 1 || store.Len() != 0 {
		t.Fatalf("expected empty prefix to clear the store, n=%d len=%d", n, store.Len())
	}
}
