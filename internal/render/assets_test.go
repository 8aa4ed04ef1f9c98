package render

import (
	"sync"
	"testing"
	"time"
)

func TestRegistryMissingFileResolvesToUnavailable(t *testing.T) {
	r := NewRegistry()
	const path = "testdata/definitely-missing.png"

	if _, ok := r.Get(path); ok {
		t.Fatal("first lookup of an unloaded path must report not-ready")
	}

	// The failure resolves asynchronously to a permanent unavailable state.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		e := r.entries[path]
		state := e.state
		r.mu.Unlock()
		if state == assetFailed {
			if _, ok := r.Get(path); ok {
				t.Fatal("failed asset must stay unavailable")
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("load of a missing file never resolved to failed")
}

// Readers poll while loader goroutines resolve; under -race this fails if
// entry state is ever read outside the registry lock. A lookup must also
// never report ready with a nil image.
func TestRegistryConcurrentGetDuringLoad(t *testing.T) {
	r := NewRegistry()
	paths := []string{
		"testdata/race-a.png",
		"testdata/race-b.png",
		"testdata/race-c.png",
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deadline := time.Now().Add(500 * time.Millisecond)
			for time.Now().Before(deadline) {
				for _, p := range paths {
					if img, ok := r.Get(p); ok && img == nil {
						t.Error("Get reported ready with a nil image")
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

func TestRegistryDedupsLoadRequests(t *testing.T) {
	r := NewRegistry()
	const path = "testdata/also-missing.png"

	for i := 0; i < 20; i++ {
		r.Load(path)
	}
	r.mu.Lock()
	n := len(r.entries)
	r.mu.Unlock()
	if n != 1 {
		t.Fatalf("expected one entry for repeated loads, got %d", n)
	}
}

func TestRegistryEmptyPathIgnored(t *testing.T) {
	r := NewRegistry()
	r.Load("")
	if _, ok := r.Get(""); ok {
		t.Fatal("empty path must never resolve")
	}
	r.mu.Lock()
	n := len(r.entries)
	r.mu.Unlock()
	if n != 0 {
		t.Fatalf("empty path must not create entries, got %d", n)
	}
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry()
	r.Load("testdata/x.png")
	r.Clear()
	r.mu.Lock()
	n := len(r.entries)
	r.mu.Unlock()
	if n != 0 {
		t.Fatalf("clear left %d entries", n)
	}
}
