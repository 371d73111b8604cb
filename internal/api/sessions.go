package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/neuromint/neuromint-go/internal/session"
)

// maxBufferedEvents caps each session's event buffer. Older events fall off
// the front; the absolute cursor keeps pollers consistent across the drop.
const maxBufferedEvents = 512

// sessionEntry is one live session plus its buffered event stream.
type sessionEntry struct {
	id   string
	ctrl *session.Controller

	mu       sync.Mutex
	events   []session.Event
	base     int // absolute index of events[0]
	lastSeen time.Time
}

func (e *sessionEntry) record(ev session.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
	if over := len(e.events) - maxBufferedEvents; over > 0 {
		e.events = e.events[over:]
		e.base += over
	}
}

// eventsSince returns the buffered events at or after the absolute cursor,
// plus the next cursor to poll with.
func (e *sessionEntry) eventsSince(since int) ([]session.Event, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := since - e.base
	if start < 0 {
		start = 0
	}
	if start > len(e.events) {
		start = len(e.events)
	}
	out := make([]session.Event, len(e.events)-start)
	copy(out, e.events[start:])
	return out, e.base + len(e.events)
}

func (e *sessionEntry) touch(now time.Time) {
	e.mu.Lock()
	e.lastSeen = now
	e.mu.Unlock()
}

func (e *sessionEntry) idleSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSeen
}

// sessionRegistry owns the live sessions, keyed by opaque id.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*sessionEntry)}
}

func (sr *sessionRegistry) add(ctrl *session.Controller, now time.Time) *sessionEntry {
	entry := &sessionEntry{
		id:       uuid.New().String(),
		ctrl:     ctrl,
		lastSeen: now,
	}
	ctrl.Subscribe(entry.record)
	sr.mu.Lock()
	sr.sessions[entry.id] = entry
	sr.mu.Unlock()
	return entry
}

func (sr *sessionRegistry) get(id string) (*sessionEntry, bool) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	entry, ok := sr.sessions[id]
	return entry, ok
}

func (sr *sessionRegistry) remove(id string) bool {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	if _, ok := sr.sessions[id]; !ok {
		return false
	}
	delete(sr.sessions, id)
	return true
}

func (sr *sessionRegistry) count() int {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return len(sr.sessions)
}

// evictIdle drops sessions untouched for longer than maxIdle and returns
// how many were removed.
func (sr *sessionRegistry) evictIdle(now time.Time, maxIdle time.Duration) int {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	evicted := 0
	for id, entry := range sr.sessions {
		if now.Sub(entry.idleSince()) > maxIdle {
			delete(sr.sessions, id)
			evicted++
		}
	}
	return evicted
}
