package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/vgrajeda/muela-guide/backend/internal/model/chat"
)

const (
	// DefaultSessionID is used when a request carries no session id.
	DefaultSessionID = "default"
	// MaxEntries bounds a session's history; older entries are dropped
	// from the front.
	MaxEntries = 16
	// DefaultRecent is the history window used for prompt construction.
	DefaultRecent = 4
)

// Store keeps per-session conversation history. Sessions are created
// lazily on first Append; Reset on an unknown session is a no-op.
// Ordering between concurrent requests on the same session is
// unspecified (last write wins).
type Store interface {
	Append(ctx context.Context, sessionID string, role chat.Role, content string)
	Recent(ctx context.Context, sessionID string, n int) []chat.Entry
	Reset(ctx context.Context, sessionID string)
}

// MemoryStore implements Store with a mutex-guarded map. Sessions live
// until Reset, so it suits tests and deployments that accept unbounded
// session growth.
type MemoryStore struct {
	mu         sync.RWMutex
	maxEntries int
	sessions   map[string][]chat.Entry
}

// NewMemoryStore bootstraps an in-memory store keeping at most
// maxEntries entries per session (MaxEntries when non-positive).
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = MaxEntries
	}
	return &MemoryStore{
		maxEntries: maxEntries,
		sessions:   make(map[string][]chat.Entry),
	}
}

// Append records one turn and trims the session to the bound.
func (s *MemoryStore) Append(_ context.Context, sessionID string, role chat.Role, content string) {
	entry := newEntry(sessionID, role, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = trim(append(s.sessions[sessionID], entry), s.maxEntries)
}

// Recent returns the last n entries in chronological order.
func (s *MemoryStore) Recent(_ context.Context, sessionID string, n int) []chat.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lastN(s.sessions[sessionID], n)
}

// Reset deletes the session's history entirely.
func (s *MemoryStore) Reset(_ context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// CacheStore implements Store on a TTL cache so idle sessions are
// evicted instead of accumulating for the life of the process.
type CacheStore struct {
	mu         sync.Mutex
	maxEntries int
	cache      *gocache.Cache
}

// NewCacheStore evicts sessions idle longer than ttl, sweeping every
// ttl/12 (at least once a minute).
func NewCacheStore(maxEntries int, ttl time.Duration) *CacheStore {
	if maxEntries <= 0 {
		maxEntries = MaxEntries
	}
	sweep := ttl / 12
	if sweep < time.Minute {
		sweep = time.Minute
	}
	return &CacheStore{
		maxEntries: maxEntries,
		cache:      gocache.New(ttl, sweep),
	}
}

// Append records one turn, refreshing the session's idle deadline.
func (s *CacheStore) Append(_ context.Context, sessionID string, role chat.Role, content string) {
	entry := newEntry(sessionID, role, content)

	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []chat.Entry
	if cached, ok := s.cache.Get(sessionID); ok {
		entries = cached.([]chat.Entry)
	}
	s.cache.Set(sessionID, trim(append(entries, entry), s.maxEntries), gocache.DefaultExpiration)
}

// Recent returns the last n entries in chronological order.
func (s *CacheStore) Recent(_ context.Context, sessionID string, n int) []chat.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.cache.Get(sessionID)
	if !ok {
		return nil
	}
	return lastN(cached.([]chat.Entry), n)
}

// Reset deletes the session's history entirely.
func (s *CacheStore) Reset(_ context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(sessionID)
}

func newEntry(sessionID string, role chat.Role, content string) chat.Entry {
	return chat.Entry{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

func trim(entries []chat.Entry, max int) []chat.Entry {
	if len(entries) <= max {
		return entries
	}
	trimmed := make([]chat.Entry, max)
	copy(trimmed, entries[len(entries)-max:])
	return trimmed
}

func lastN(entries []chat.Entry, n int) []chat.Entry {
	if n <= 0 {
		n = DefaultRecent
	}
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	copied := make([]chat.Entry, len(entries))
	copy(copied, entries)
	return copied
}
