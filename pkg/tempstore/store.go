// Package tempstore holds oversized tool results under short-lived,
// addressable identifiers so an agent can fetch them by URI instead of
// receiving the whole payload inline.
package tempstore

import (
	"errors"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long a stored resource stays readable.
	DefaultTTL = 30 * time.Minute

	// DefaultThresholdBytes is the serialized size above which tool
	// results are stored here instead of returned inline.
	DefaultThresholdBytes = 50 * 1024
)

// ErrNotFound is returned by Read for unknown or expired ids. An expired
// resource is indistinguishable from one that never existed.
var ErrNotFound = errors.New("temporary resource not found or expired")

// Metadata describes the origin of a stored payload.
type Metadata struct {
	Tool string `json:"tool"`
	Size int    `json:"size"`
}

type entry struct {
	payload   []byte
	uri       string
	meta      Metadata
	createdAt time.Time
}

// Store is an in-memory, TTL-based cache of tool results. Entries expire a
// fixed duration after creation; expiry is checked lazily on every read and
// optionally swept in the background. The store lives for the process
// lifetime and is never persisted.
type Store struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
	now   func() time.Time

	sweepOnce sync.Once
	stopOnce  sync.Once
	stopSweep chan struct{}
}

// New creates a store with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func New(ttl time.Duration) *Store {
	return NewWithClock(ttl, time.Now)
}

// NewWithClock creates a store with an injectable clock for tests.
func NewWithClock(ttl time.Duration, now func() time.Time) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		items:     make(map[string]entry),
		ttl:       ttl,
		now:       now,
		stopSweep: make(chan struct{}),
	}
}

// Create stores payload under id, stamping the current time. The payload is
// copied so later caller mutations cannot reach the stored copy.
func (s *Store) Create(id, uri string, payload []byte, meta Metadata) {
	buf := make([]byte, len(payload))
	copy(buf, payload)
	if meta.Size == 0 {
		meta.Size = len(payload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = entry{
		payload:   buf,
		uri:       uri,
		meta:      meta,
		createdAt: s.now(),
	}
}

// Read returns a copy of the payload and its metadata for id, or
// ErrNotFound if the id is unknown or its TTL has elapsed. Expired entries
// are removed on the spot. The copy mirrors Create: callers cannot reach
// the stored bytes in either direction.
func (s *Store) Read(id string) ([]byte, Metadata, error) {
	s.mu.RLock()
	e, ok := s.items[id]
	s.mu.RUnlock()

	if !ok {
		return nil, Metadata{}, ErrNotFound
	}
	if s.expired(e) {
		s.mu.Lock()
		// Re-check under the write lock; the entry may have been replaced.
		if cur, ok := s.items[id]; ok && s.expired(cur) {
			delete(s.items, id)
		}
		s.mu.Unlock()
		return nil, Metadata{}, ErrNotFound
	}
	buf := make([]byte, len(e.payload))
	copy(buf, e.payload)
	return buf, e.meta, nil
}

// Len returns the number of stored entries, including any not yet swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// TTL returns the store's time-to-live.
func (s *Store) TTL() time.Duration { return s.ttl }

func (s *Store) expired(e entry) bool {
	return !s.now().Before(e.createdAt.Add(s.ttl))
}

// StartSweeper launches a background goroutine that evicts expired entries
// every interval. Sweeping is an internal optimization; the read contract is
// enforced lazily either way. Safe to call once per store.
func (s *Store) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		return
	}
	s.sweepOnce.Do(func() {
		ticker := time.NewTicker(interval)
		go func() {
			for {
				select {
				case <-ticker.C:
					s.sweep()
				case <-s.stopSweep:
					ticker.Stop()
					return
				}
			}
		}()
	})
}

// Stop terminates the background sweeper, if running. Safe to call from
// multiple goroutines.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopSweep)
	})
}

func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.items {
		if s.expired(e) {
			delete(s.items, id)
		}
	}
}
