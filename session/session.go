// Package session keeps one interaction flow per browser session.
//
// Sessions live in memory only and are keyed by random UUIDs. Idle sessions
// are dropped by a sweep that runs on access, so a process with no traffic
// holds its sessions until the next request.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spetersoncode/cinematch/flow"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 2 * time.Hour

// Factory creates the flow for a new session.
type Factory func(id string) *flow.Flow

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the idle timeout. Non-positive values keep the default.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithOnEvict registers a callback invoked with the ID of each expired
// session. It runs with the store's lock held and must not call back into
// the store.
func WithOnEvict(fn func(id string)) Option {
	return func(s *Store) {
		s.onEvict = fn
	}
}

type entry struct {
	flow     *flow.Flow
	lastSeen time.Time
}

// Store is a thread-safe in-memory session map.
type Store struct {
	factory Factory
	ttl     time.Duration
	now     func() time.Time
	onEvict func(id string)

	mu        sync.Mutex
	entries   map[string]*entry
	lastSweep time.Time
}

// New creates an empty store. factory is called once per new session.
func New(factory Factory, opts ...Option) *Store {
	s := &Store{
		factory: factory,
		ttl:     DefaultTTL,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the flow for id and refreshes its idle timer.
func (s *Store) Get(id string) (*flow.Flow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = now
	return e.flow, true
}

// GetOrCreate returns the flow for id, creating a new session when id is
// unknown or expired. New sessions always get a server-generated UUID; the
// returned ID is the one to hand back to the client.
func (s *Store) GetOrCreate(id string) (string, *flow.Flow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	if e, ok := s.entries[id]; ok {
		e.lastSeen = now
		return id, e.flow, false
	}

	id = uuid.NewString()
	f := s.factory(id)
	s.entries[id] = &entry{flow: f, lastSeen: now}
	return id, f, true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSweep = time.Time{}
	return s.sweepLocked(s.now())
}

// sweepLocked runs at most once per sweepInterval.
func (s *Store) sweepLocked(now time.Time) int {
	if now.Sub(s.lastSweep) < s.sweepInterval() {
		return 0
	}
	s.lastSweep = now

	removed := 0
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) < s.ttl {
			continue
		}
		// an in-flight request keeps its session
		if e.flow.State().Step() == flow.StepLoading {
			continue
		}
		delete(s.entries, id)
		removed++
		if s.onEvict != nil {
			s.onEvict(id)
		}
	}
	return removed
}

func (s *Store) sweepInterval() time.Duration {
	return min(s.ttl/4, time.Minute)
}
