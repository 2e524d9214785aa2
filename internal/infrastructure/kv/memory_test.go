package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gift_wheel/internal/infrastructure/kv"
)

func TestMemoryTTL(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := kv.NewMemory().WithClock(func() time.Time { return now })

	rq.NoError(m.Set(ctx, "short", "1", time.Minute))
	rq.NoError(m.Set(ctx, "forever", "2", 0))

	v, ok, err := m.Get(ctx, "short")
	rq.NoError(err)
	rq.True(ok)
	rq.Equal("1", v)

	now = now.Add(time.Minute)

	_, ok, err = m.Get(ctx, "short")
	rq.NoError(err)
	rq.False(ok)

	_, ok, err = m.Get(ctx, "forever")
	rq.NoError(err)
	rq.True(ok)
}

func TestMemoryGetDelMany(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	m := kv.NewMemory()

	rq.NoError(m.SetMany(ctx, map[string]string{"a": "1", "b": "2"}, time.Hour))

	got, err := m.GetMany(ctx, "a", "b", "missing")
	rq.NoError(err)
	rq.Equal(map[string]string{"a": "1", "b": "2"}, got)

	got, err = m.GetDelMany(ctx, "a", "b")
	rq.NoError(err)
	rq.Equal(map[string]string{"a": "1", "b": "2"}, got)

	got, err = m.GetDelMany(ctx, "a", "b")
	rq.NoError(err)
	rq.Empty(got)
}

func TestMemorySortedSet(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	m := kv.NewMemory()

	rq.NoError(m.ZAdd(ctx, "z", 3, "c"))
	rq.NoError(m.ZAdd(ctx, "z", 1, "a"))
	rq.NoError(m.ZAdd(ctx, "z", 2, "b2"))
	rq.NoError(m.ZAdd(ctx, "z", 2, "b1"))
	rq.NoError(m.ZAdd(ctx, "z", 5, "c"))

	n, err := m.ZCard(ctx, "z")
	rq.NoError(err)
	rq.EqualValues(4, n)

	all, err := m.ZRange(ctx, "z", 0, -1)
	rq.NoError(err)
	rq.Equal([]string{"a", "b1", "b2", "c"}, all)

	first, err := m.ZRange(ctx, "z", 0, 1)
	rq.NoError(err)
	rq.Equal([]string{"a", "b1"}, first)

	inRange, err := m.ZRangeByScore(ctx, "z", 1.5, 5, 0)
	rq.NoError(err)
	rq.Equal([]string{"b1", "b2", "c"}, inRange)

	limited, err := m.ZRangeByScore(ctx, "z", 0, 10, 2)
	rq.NoError(err)
	rq.Equal([]string{"a", "b1"}, limited)

	empty, err := m.ZRange(ctx, "missing", 0, -1)
	rq.NoError(err)
	rq.Empty(empty)
}
