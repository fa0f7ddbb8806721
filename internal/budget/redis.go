package budget

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	tokensField = "tokens"
	usdField    = "usd"
)

// RedisLedger stores per-date usage in a Redis hash per date key.
// HIncrBy/HIncrByFloat make each increment an atomic read-modify-write
// on the server, so concurrent pipeline invocations cannot lose updates.
type RedisLedger struct {
	client *redis.Client
	prefix string
}

// NewRedisLedger creates a Redis-backed ledger. prefix namespaces the
// keys, e.g. "budget" yields "budget:2025-01-02".
func NewRedisLedger(client *redis.Client, prefix string) *RedisLedger {
	if prefix == "" {
		prefix = "budget"
	}
	return &RedisLedger{
		client: client,
		prefix: prefix,
	}
}

// Add increments the given date's totals.
func (l *RedisLedger) Add(ctx context.Context, date string, tokens int, usd float64) error {
	key := l.key(date)

	pipe := l.client.TxPipeline()
	pipe.HIncrBy(ctx, key, tokensField, int64(tokens))
	pipe.HIncrByFloat(ctx, key, usdField, usd)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record usage for %s: %w", date, err)
	}
	return nil
}

// Day returns the given date's totals.
func (l *RedisLedger) Day(ctx context.Context, date string) (DayUsage, error) {
	fields, err := l.client.HGetAll(ctx, l.key(date)).Result()
	if err != nil {
		return DayUsage{}, fmt.Errorf("failed to read usage for %s: %w", date, err)
	}

	var usage DayUsage
	if v, ok := fields[tokensField]; ok {
		if n, parseErr := strconv.Atoi(v); parseErr == nil {
			usage.Tokens = n
		}
	}
	if v, ok := fields[usdField]; ok {
		if f, parseErr := strconv.ParseFloat(v, 64); parseErr == nil {
			usage.USD = f
		}
	}
	return usage, nil
}

func (l *RedisLedger) key(date string) string {
	return l.prefix + ":" + date
}
