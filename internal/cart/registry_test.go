package cart

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestRegistryGetOrCreateReusesController(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})

	first := reg.GetOrCreate("s1")
	second := reg.GetOrCreate("s1")
	if first != second {
		t.Fatalf("expected same controller for one session")
	}
	if other := reg.GetOrCreate("s2"); other == first {
		t.Fatalf("sessions must not share a cart")
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 sessions got %d", reg.Len())
	}
	if _, ok := reg.Get("missing"); ok {
		t.Fatalf("Get should not create sessions")
	}
}

func TestRegistryDeleteNotifiesEviction(t *testing.T) {
	var evicted []string
	reg := NewRegistry(RegistryOptions{OnEvict: func(id string) { evicted = append(evicted, id) }})
	reg.GetOrCreate("s1")

	reg.Delete("s1")
	reg.Delete("s1")

	if reg.Len() != 0 {
		t.Fatalf("expected empty registry")
	}
	if len(evicted) != 1 || evicted[0] != "s1" {
		t.Fatalf("unexpected evictions %v", evicted)
	}
}

func TestRegistrySweepDropsIdleSessions(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	var evicted []string
	reg := NewRegistry(RegistryOptions{
		IdleTTL: time.Hour,
		Now:     clock,
		OnEvict: func(id string) { evicted = append(evicted, id) },
	})

	reg.GetOrCreate("stale")
	now = now.Add(50 * time.Minute)
	fresh := reg.GetOrCreate("fresh")
	if _, err := fresh.AddItem(item("a", "1", 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(20 * time.Minute)
	if removed := reg.Sweep(now); removed != 1 {
		t.Fatalf("expected 1 eviction got %d", removed)
	}
	if _, ok := reg.Get("stale"); ok {
		t.Fatalf("stale session should be gone")
	}
	if _, ok := reg.Get("fresh"); !ok {
		t.Fatalf("fresh session should survive")
	}
	if len(evicted) != 1 || evicted[0] != "stale" {
		t.Fatalf("unexpected evictions %v", evicted)
	}
}

func TestRegistrySweepDisabledWithoutTTL(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})
	reg.GetOrCreate("s1")
	if removed := reg.Sweep(time.Now().Add(24 * time.Hour)); removed != 0 {
		t.Fatalf("expected no evictions without ttl, got %d", removed)
	}
}

func TestRegistryRunStopsOnCancel(t *testing.T) {
	reg := NewRegistry(RegistryOptions{IdleTTL: time.Nanosecond})
	reg.GetOrCreate("s1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Run(ctx, time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for reg.Len() > 0 {
		select {
		case <-deadline:
			t.Fatalf("janitor never swept the idle session")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

type countingJobs struct {
	mu   sync.Mutex
	runs map[string]int
}

func (c *countingJobs) Track(job string, fn func() error) error {
	c.mu.Lock()
	c.runs[job]++
	c.mu.Unlock()
	return fn()
}

func (c *countingJobs) count(job string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs[job]
}

func TestRegistryRunTracksSweeps(t *testing.T) {
	jobs := &countingJobs{runs: map[string]int{}}
	reg := NewRegistry(RegistryOptions{IdleTTL: time.Hour, Jobs: jobs})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reg.Run(ctx, time.Millisecond)

	deadline := time.After(2 * time.Second)
	for jobs.count(SweepJob) == 0 {
		select {
		case <-deadline:
			t.Fatalf("expected tracked sweep runs")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestRegistrySweepKeepsSubscribedSessions(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	reg := NewRegistry(RegistryOptions{IdleTTL: time.Hour, Now: func() time.Time { return now }})

	ctrl := reg.GetOrCreate("s1")
	var seen int
	unsubscribe := ctrl.Subscribe(func(State) { seen++ })

	now = now.Add(2 * time.Hour)
	if removed := reg.Sweep(now); removed != 0 {
		t.Fatalf("subscribed session must not be swept, removed %d", removed)
	}

	same := reg.GetOrCreate("s1")
	if same != ctrl {
		t.Fatalf("expected the subscribed controller to be reused")
	}
	if _, err := same.AddItem(item("a", "1", 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != 1 {
		t.Fatalf("expected live subscriber to see the update, got %d", seen)
	}

	unsubscribe()
	now = now.Add(2 * time.Hour)
	if removed := reg.Sweep(now); removed != 1 {
		t.Fatalf("expected session swept after unsubscribe, removed %d", removed)
	}
}
