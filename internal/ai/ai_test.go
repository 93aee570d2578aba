package ai

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestLazyBuildsOnceUnderConcurrency(t *testing.T) {
	var builds atomic.Int32
	lazy := NewLazy(func() (string, error) {
		builds.Add(1)
		return "model", nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := lazy.Get()
			if err != nil || v != "model" {
				t.Errorf("unexpected result: %q, %v", v, err)
			}
		}()
	}
	wg.Wait()

	if got := builds.Load(); got != 1 {
		t.Fatalf("expected a single construction, got %d", got)
	}
}

func TestLazyRemembersError(t *testing.T) {
	var builds int
	boom := errors.New("boom")
	lazy := NewLazy(func() (int, error) {
		builds++
		return 0, boom
	})

	for i := 0; i < 3; i++ {
		if _, err := lazy.Get(); !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	}
	if builds != 1 {
		t.Fatalf("expected a single construction, got %d", builds)
	}
}

func TestLazyNil(t *testing.T) {
	var lazy *Lazy[string]
	if _, err := lazy.Get(); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	ready := Ready("x")
	if v, err := ready.Get(); err != nil || v != "x" {
		t.Fatalf("unexpected ready value %q, %v", v, err)
	}
}
