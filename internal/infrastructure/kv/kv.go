// Package kv — тонкая обёртка над key-value хранилищем с TTL и
// сортированными множествами. Основная реализация — Redis, Memory
// используется в тестах и при локальном запуске без Redis.
package kv

import (
	"context"
	"time"
)

type Store interface {
	// Get возвращает значение и false, если ключа нет или он истёк.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set записывает значение. ttl == 0 — без срока жизни.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error

	// SetMany атомарно записывает несколько ключей с общим ttl.
	SetMany(ctx context.Context, values map[string]string, ttl time.Duration) error
	// GetMany читает ключи одним снимком. Отсутствующих ключей нет в результате.
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	// GetDelMany атомарно читает и удаляет ключи.
	GetDelMany(ctx context.Context, keys ...string) (map[string]string, error)

	ZAdd(ctx context.Context, key string, score float64, member string) error
	// ZRangeByScore возвращает участников с min <= score <= max по
	// возрастанию score. limit <= 0 — без ограничения.
	ZRangeByScore(ctx context.Context, key string, minScore, maxScore float64, limit int) ([]string, error)
	// ZRange возвращает участников по рангу, stop включительно, -1 — до конца.
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZCard(ctx context.Context, key string) (int64, error)
}
