// Package session keeps per-client shop state (cart, pending order, admin login) server-side.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by a Store when no session exists for the id.
var ErrNotFound = errors.New("session not found")

// Session is the state owned by one client.
type Session struct {
	ID            string   `json:"-"`
	Cart          []string `json:"cart"`
	RecentOrderID *int64   `json:"recent_order_id,omitempty"`
	AdminUserID   *int64   `json:"admin_user_id,omitempty"`
}

// New returns an empty session with the given id.
func New(id string) *Session {
	return &Session{ID: id, Cart: []string{}}
}

// CartCount returns the number of entries in the cart.
func (s *Session) CartCount() int {
	return len(s.Cart)
}

// IsAdmin reports whether an admin is logged in on this session.
func (s *Session) IsAdmin() bool {
	return s.AdminUserID != nil
}

// IsEmpty reports whether the session holds no state worth keeping.
func (s *Session) IsEmpty() bool {
	return len(s.Cart) == 0 && s.RecentOrderID == nil && s.AdminUserID == nil
}

// Store persists sessions between requests.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory. Intended for development and tests.
// Expired sessions are dropped when read and by a sweep that runs from Save at most
// once per sweep interval.
type MemoryStore struct {
	mu        sync.RWMutex
	ttl       time.Duration
	sessions  map[string]memoryEntry
	now       func() time.Time
	nextSweep time.Time
}

type memoryEntry struct {
	s       Session
	expires time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// maxSweepInterval caps how long expired sessions may linger unread.
const maxSweepInterval = time.Minute

// NewMemoryStore creates a MemoryStore. A zero ttl keeps sessions forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, sessions: make(map[string]memoryEntry), now: time.Now}
}

// Load returns a copy of the stored session.
func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	now := m.now()

	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if e.expired(now) {
		m.mu.Lock()
		if cur, ok := m.sessions[id]; ok && cur.expired(now) {
			delete(m.sessions, id)
		}
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	return clone(&e.s), nil
}

// Save stores a copy of s, replacing any previous state for the id.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	now := m.now()
	e := memoryEntry{s: *clone(s)}
	if m.ttl > 0 {
		e.expires = now.Add(m.ttl)
	}

	m.mu.Lock()
	m.sessions[s.ID] = e
	if m.ttl > 0 && !now.Before(m.nextSweep) {
		m.sweepLocked(now)
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) sweepLocked(now time.Time) {
	for id, e := range m.sessions {
		if e.expired(now) {
			delete(m.sessions, id)
		}
	}
	interval := m.ttl
	if interval > maxSweepInterval {
		interval = maxSweepInterval
	}
	m.nextSweep = now.Add(interval)
}

// Delete removes the session.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of sessions held, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func clone(s *Session) *Session {
	out := &Session{ID: s.ID, Cart: append([]string{}, s.Cart...)}
	if s.RecentOrderID != nil {
		v := *s.RecentOrderID
		out.RecentOrderID = &v
	}
	if s.AdminUserID != nil {
		v := *s.AdminUserID
		out.AdminUserID = &v
	}
	return out
}
