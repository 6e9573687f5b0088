package cart

import (
	"context"
	"sync"
	"time"
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	IdleTTL  time.Duration
	Recorder Recorder
	Now      func() time.Time
	// OnEvict is called after a session is swept or deleted.
	OnEvict func(sessionID string)
	// Jobs, when set, wraps every janitor sweep.
	Jobs JobTracker
}

// JobTracker times a background job run.
type JobTracker interface {
	Track(job string, fn func() error) error
}

// SweepJob names the janitor run in job metrics.
const SweepJob = "cart_session_sweep"

// Registry maps cart session ids to controllers. It is owned by the
// application root and handed to the handlers that need it.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Controller
	idleTTL  time.Duration
	recorder Recorder
	now      func() time.Time
	onEvict  func(string)
	jobs     JobTracker
}

func NewRegistry(opts RegistryOptions) *Registry {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		sessions: map[string]*Controller{},
		idleTTL:  opts.IdleTTL,
		recorder: opts.Recorder,
		now:      now,
		onEvict:  opts.OnEvict,
		jobs:     opts.Jobs,
	}
}

// Get returns the controller for sessionID if one exists.
func (r *Registry) Get(sessionID string) (*Controller, bool) {
	r.mu.RLock()
	ctrl, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if ok {
		ctrl.Touch()
	}
	return ctrl, ok
}

// GetOrCreate returns the controller for sessionID, creating an empty cart on first use.
func (r *Registry) GetOrCreate(sessionID string) *Controller {
	if ctrl, ok := r.Get(sessionID); ok {
		return ctrl
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ctrl, ok := r.sessions[sessionID]; ok {
		return ctrl
	}
	ctrl := NewController(ControllerOptions{Recorder: r.recorder, Now: r.now})
	r.sessions[sessionID] = ctrl
	return ctrl
}

// Delete discards the session and its cart.
func (r *Registry) Delete(sessionID string) {
	r.mu.Lock()
	_, ok := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	if ok && r.onEvict != nil {
		r.onEvict(sessionID)
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the configured TTL and returns
// how many were removed. Sessions with live subscribers are kept. A zero TTL
// disables expiry.
func (r *Registry) Sweep(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}

	var evicted []string
	r.mu.Lock()
	for id, ctrl := range r.sessions {
		if ctrl.SubscriberCount() > 0 {
			continue
		}
		if now.Sub(ctrl.IdleSince()) > r.idleTTL {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	r.mu.Unlock()

	if r.onEvict != nil {
		for _, id := range evicted {
			r.onEvict(id)
		}
	}
	return len(evicted)
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweepOnce()
		}
	}
}

func (r *Registry) sweepOnce() {
	if r.jobs == nil {
		r.Sweep(r.now())
		return
	}
	_ = r.jobs.Track(SweepJob, func() error {
		r.Sweep(r.now())
		return nil
	})
}
