package assets

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestCache_MemoisesLoads(t *testing.T) {
	cache := NewCache()
	var loads atomic.Int32
	load := func(ctx context.Context) (any, error) {
		loads.Add(1)
		return "decoded", nil
	}

	for i := 0; i < 5; i++ {
		v, err := cache.GetOrLoad(context.Background(), "k", load)
		if err != nil {
			t.Fatal(err)
		}
		if v != "decoded" {
			t.Fatalf("value = %v", v)
		}
	}
	if got := loads.Load(); got != 1 {
		t.Errorf("load ran %d times, want 1", got)
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}

func TestCache_FailedLoadsAreNotCached(t *testing.T) {
	cache := NewCache()
	var loads atomic.Int32
	_, err := cache.GetOrLoad(context.Background(), "k", func(ctx context.Context) (any, error) {
		loads.Add(1)
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatal("GetOrLoad returned nil error")
	}
	if cache.Len() != 0 {
		t.Errorf("failed load cached: Len = %d", cache.Len())
	}
	if _, err := cache.GetOrLoad(context.Background(), "k", func(ctx context.Context) (any, error) {
		loads.Add(1)
		return "ok", nil
	}); err != nil {
		t.Fatal(err)
	}
	if got := loads.Load(); got != 2 {
		t.Errorf("loads = %d, want 2 (failure retried)", got)
	}
}

func TestCache_ConcurrentLoadsShareOneFlight(t *testing.T) {
	cache := NewCache()
	var loads atomic.Int32
	release := make(chan struct{})
	load := func(ctx context.Context) (any, error) {
		loads.Add(1)
		<-release
		return "v", nil
	}

	const n = 16
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if v, err := cache.GetOrLoad(context.Background(), "k", load); err != nil || v != "v" {
				t.Errorf("GetOrLoad = %v, %v", v, err)
			}
		}()
	}
	close(start)
	// Give every goroutine a chance to queue on the key, then let the
	// single in-flight load finish.
	close(release)
	wg.Wait()

	if got := loads.Load(); got != 1 {
		t.Errorf("load ran %d times, want 1 (in-flight dedup)", got)
	}
}

type disposableValue struct {
	disposed atomic.Bool
}

func (d *disposableValue) Dispose() { d.disposed.Store(true) }

func TestCache_ClearDisposesValues(t *testing.T) {
	cache := NewCache()
	d := &disposableValue{}
	if _, err := cache.GetOrLoad(context.Background(), "k", func(ctx context.Context) (any, error) {
		return d, nil
	}); err != nil {
		t.Fatal(err)
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len = %d after Clear", cache.Len())
	}
	if !d.disposed.Load() {
		t.Error("Clear did not dispose held value")
	}
}
