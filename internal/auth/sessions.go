package auth

import (
	"sync"
)

// SessionEventType marks what changed in the registry.
type SessionEventType string

const (
	SessionStarted SessionEventType = "started"
	SessionEnded   SessionEventType = "ended"
)

// SessionEvent is delivered to subscribers after a registry mutation.
type SessionEvent struct {
	Type    SessionEventType
	UserID  string
	Profile *Profile
}

// SessionRegistry is an in-memory cache of signed-in profiles with change
// notification. Events are delivered on a dedicated drain goroutine after
// the mutating call has returned, so a subscriber callback may call back
// into the registry without deadlocking.
type SessionRegistry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	subs     []func(SessionEvent)

	events chan SessionEvent
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewSessionRegistry creates a registry and starts its drain goroutine.
func NewSessionRegistry() *SessionRegistry {
	r := &SessionRegistry{
		profiles: make(map[string]*Profile),
		events:   make(chan SessionEvent, 64),
		done:     make(chan struct{}),
	}
	r.wg.Add(1)
	go r.drain()
	return r
}

func (r *SessionRegistry) drain() {
	defer r.wg.Done()
	for {
		select {
		case ev := <-r.events:
			r.mu.RLock()
			subs := make([]func(SessionEvent), len(r.subs))
			copy(subs, r.subs)
			r.mu.RUnlock()
			for _, fn := range subs {
				fn(ev)
			}
		case <-r.done:
			return
		}
	}
}

// Start records a signed-in profile and notifies subscribers.
func (r *SessionRegistry) Start(p *Profile) {
	if p == nil || p.ID == "" {
		return
	}
	r.mu.Lock()
	r.profiles[p.ID] = p
	r.mu.Unlock()
	r.publish(SessionEvent{Type: SessionStarted, UserID: p.ID, Profile: p})
}

// End removes a session and notifies subscribers.
func (r *SessionRegistry) End(userID string) {
	r.mu.Lock()
	p, ok := r.profiles[userID]
	delete(r.profiles, userID)
	r.mu.Unlock()
	if ok {
		r.publish(SessionEvent{Type: SessionEnded, UserID: userID, Profile: p})
	}
}

// Get returns the cached profile for a signed-in user.
func (r *SessionRegistry) Get(userID string) (*Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	return p, ok
}

// Active reports how many sessions the registry holds.
func (r *SessionRegistry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}

// Subscribe registers a callback for session events. Callbacks run on the
// drain goroutine, never inside Start/End.
func (r *SessionRegistry) Subscribe(fn func(SessionEvent)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.subs = append(r.subs, fn)
	r.mu.Unlock()
}

func (r *SessionRegistry) publish(ev SessionEvent) {
	select {
	case r.events <- ev:
	case <-r.done:
	}
}

// Close stops the drain goroutine. Pending events are dropped.
func (r *SessionRegistry) Close() {
	close(r.done)
	r.wg.Wait()
}
