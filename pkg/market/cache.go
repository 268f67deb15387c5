package market

import (
	"strings"
	"sync"
	"time"
)

// Namespace prefixes every cache key.
const Namespace = "financeeye"

// TTLStore is a process-local key-value cache with per-store TTL eviction.
// Lookups and stores are individually synchronized, but GetOrPopulate runs
// the fill outside the lock: two goroutines racing on a cold key may both
// fetch, and the last store wins. That duplicate fetch is accepted; entries
// are immutable once stored. Key space is unbounded.
type TTLStore[T any] struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]ttlEntry[T]
}

type ttlEntry[T any] struct {
	value   T
	fetched time.Time
}

// NewTTLStore creates a store whose entries expire ttl after insertion.
func NewTTLStore[T any](ttl time.Duration) *TTLStore[T] {
	return &TTLStore[T]{
		ttl:     ttl,
		entries: make(map[string]ttlEntry[T]),
	}
}

// Get returns the live value for key, if any.
func (s *TTLStore[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	if !ok || time.Since(entry.fetched) > s.ttl {
		var zero T
		return zero, false
	}
	return entry.value, true
}

// Put stores value under key, restarting its TTL.
func (s *TTLStore[T]) Put(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = ttlEntry[T]{value: value, fetched: time.Now()}
}

// GetOrPopulate returns the cached value or runs fill to produce and store
// one. Fill errors are returned without polluting the cache.
func (s *TTLStore[T]) GetOrPopulate(key string, fill func() (T, error)) (T, error) {
	if value, ok := s.Get(key); ok {
		return value, nil
	}
	value, err := fill()
	if err != nil {
		var zero T
		return zero, err
	}
	s.Put(key, value)
	return value, nil
}

// Len counts live entries.
func (s *TTLStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, entry := range s.entries {
		if time.Since(entry.fetched) <= s.ttl {
			n++
		}
	}
	return n
}

// HistoryKey builds the cache key for a history lookup. The key carries
// every request parameter so distinct ranges and periods never collide.
func HistoryKey(symbol string, q HistoryQuery) string {
	if q.UsesRange() {
		return formatKey("history", symbol,
			q.Start.Format("2006-01-02"), q.End.Format("2006-01-02"))
	}
	return formatKey("history", symbol, string(q.Period))
}

// InfoKey builds the cache key for company metadata.
func InfoKey(symbol string) string {
	return formatKey("info", strings.ToUpper(strings.TrimSpace(symbol)))
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}
