package mcpserver

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/erraggy/oasir/ir"
)

// modelEntry is one compiled model with LRU ordering and TTL expiry.
type modelEntry struct {
	key       string
	model     *ir.Model
	touchedAt time.Time
	expiresAt time.Time
}

// modelStore is the session-scoped cache of compiled models. Entries are
// addressed by an opaque UUID handle; inputs map to the handle of their last
// compilation so repeated requests reuse it.
type modelStore struct {
	mu             sync.Mutex
	entries        map[string]*modelEntry
	handles        map[string]string
	maxSize        int
	ttl            time.Duration
	sweeperStarted atomic.Bool
}

var models = newModelStore(cfg.CacheMaxSize, cfg.CacheTTL)

func newModelStore(maxSize int, ttl time.Duration) *modelStore {
	return &modelStore{
		entries: make(map[string]*modelEntry),
		handles: make(map[string]string),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// get returns the model for handle. Expired entries are lazily removed.
func (s *modelStore) get(handle string) (*ir.Model, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(handle, time.Now())
	if !ok {
		return nil, false
	}
	return e.model, true
}

// lookup returns the handle and model last stored for an input key.
func (s *modelStore) lookup(key string) (string, *ir.Model, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	handle, ok := s.handles[key]
	if !ok {
		return "", nil, false
	}
	e, ok := s.live(handle, time.Now())
	if !ok {
		return "", nil, false
	}
	return handle, e.model, true
}

// live returns an unexpired entry and touches it. Callers hold mu.
func (s *modelStore) live(handle string, now time.Time) (*modelEntry, bool) {
	e, ok := s.entries[handle]
	if !ok {
		return nil, false
	}
	if now.After(e.expiresAt) {
		s.remove(handle)
		return nil, false
	}
	e.touchedAt = now
	return e, true
}

// put stores m under a fresh handle, evicting the least recently used entry
// if at capacity. An empty key stores the model without input lookup.
func (s *modelStore) put(key string, m *ir.Model) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.handles[key]; ok && key != "" {
		s.remove(old)
	}
	if len(s.entries) >= s.maxSize {
		var oldest string
		var oldestTime time.Time
		for h, e := range s.entries {
			if oldest == "" || e.touchedAt.Before(oldestTime) {
				oldest = h
				oldestTime = e.touchedAt
			}
		}
		if oldest != "" {
			s.remove(oldest)
		}
	}

	now := time.Now()
	handle := uuid.NewString()
	s.entries[handle] = &modelEntry{key: key, model: m, touchedAt: now, expiresAt: now.Add(s.ttl)}
	if key != "" {
		s.handles[key] = handle
	}
	return handle
}

// remove deletes an entry and its key mapping. Callers hold mu.
func (s *modelStore) remove(handle string) {
	e, ok := s.entries[handle]
	if !ok {
		return
	}
	delete(s.entries, handle)
	if s.handles[e.key] == handle {
		delete(s.handles, e.key)
	}
}

// sweep removes all expired entries.
func (s *modelStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for h, e := range s.entries {
		if now.After(e.expiresAt) {
			s.remove(h)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes
// expired entries. Only the first call spawns a sweeper; it stops when ctx is
// cancelled.
func (s *modelStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !s.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer s.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// reset clears all entries. Used in tests.
func (s *modelStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*modelEntry)
	s.handles = make(map[string]string)
}

// size returns the number of cached models.
func (s *modelStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
