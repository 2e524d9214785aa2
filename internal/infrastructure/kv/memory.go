package kv

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

type memoryValue struct {
	value     string
	expiresAt time.Time
}

type Memory struct {
	mu     sync.Mutex
	values map[string]memoryValue
	zsets  map[string]map[string]float64
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]memoryValue),
		zsets:  make(map[string]map[string]float64),
		now:    time.Now,
	}
}

// WithClock подменяет часы, нужно для проверки TTL.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.lookup(key)
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := memoryValue{value: value}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}
	m.values[key] = item

	return nil
}

func (m *Memory) SetMany(_ context.Context, values map[string]string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}

	for k, v := range values {
		m.values[k] = memoryValue{value: v, expiresAt: expiresAt}
	}

	return nil
}

func (m *Memory) GetMany(_ context.Context, keys ...string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := m.lookup(k); ok {
			out[k] = v
		}
	}

	return out, nil
}

func (m *Memory) GetDelMany(_ context.Context, keys ...string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := m.lookup(k); ok {
			out[k] = v
		}
		delete(m.values, k)
	}

	return out, nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.values, k)
		delete(m.zsets, k)
	}

	return nil
}

func (m *Memory) ZAdd(_ context.Context, key string, score float64, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.zsets[key]
	if !ok {
		set = make(map[string]float64)
		m.zsets[key] = set
	}
	set[member] = score

	return nil
}

func (m *Memory) ZRangeByScore(
	_ context.Context,
	key string,
	minScore, maxScore float64,
	limit int,
) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for _, e := range m.sorted(key) {
		if e.score < minScore || e.score > maxScore {
			continue
		}
		out = append(out, e.member)
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out, nil
}

func (m *Memory) ZRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.sorted(key)
	n := int64(len(entries))

	if start < 0 {
		start = max(0, n+start)
	}
	if stop < 0 {
		stop = n + stop
	}
	stop = min(stop, n-1)

	if start > stop {
		return nil, nil
	}

	out := make([]string, 0, stop-start+1)
	for _, e := range entries[start : stop+1] {
		out = append(out, e.member)
	}

	return out, nil
}

func (m *Memory) ZCard(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return int64(len(m.zsets[key])), nil
}

func (m *Memory) lookup(key string) (string, bool) {
	item, ok := m.values[key]
	if !ok {
		return "", false
	}

	if !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt) {
		delete(m.values, key)
		return "", false
	}

	return item.value, true
}

type zEntry struct {
	member string
	score  float64
}

// sorted повторяет порядок Redis: по score, при равенстве — по member.
func (m *Memory) sorted(key string) []zEntry {
	set := m.zsets[key]
	entries := make([]zEntry, 0, len(set))
	for member, score := range set {
		entries = append(entries, zEntry{member: member, score: score})
	}

	slices.SortFunc(entries, func(a, b zEntry) int {
		if c := cmp.Compare(a.score, b.score); c != 0 {
			return c
		}
		return cmp.Compare(a.member, b.member)
	})

	return entries
}
