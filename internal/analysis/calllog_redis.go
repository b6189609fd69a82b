package analysis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CallLog remembers when the LLM was last called.
type CallLog interface {
	LastCalls(ctx context.Context, userID string) (user, global time.Time, err error)
	RecordCall(ctx context.Context, userID string, at time.Time) error
}

// RedisCallLog keeps last-call times as unix milliseconds under two keys.
type RedisCallLog struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCallLog keeps entries for ttl, which must cover the longest guard
// window. Zero or less means 24h.
func NewRedisCallLog(client *redis.Client, prefix string, ttl time.Duration) *RedisCallLog {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "bookmood:llm"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCallLog{client: client, prefix: prefix, ttl: ttl}
}

func (l *RedisCallLog) userKey(userID string) string {
	if userID == "" {
		userID = "anonymous"
	}
	return l.prefix + ":user:" + userID
}

func (l *RedisCallLog) globalKey() string {
	return l.prefix + ":global"
}

func (l *RedisCallLog) LastCalls(ctx context.Context, userID string) (time.Time, time.Time, error) {
	vals, err := l.client.MGet(ctx, l.userKey(userID), l.globalKey()).Result()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("read llm call log: %w", err)
	}
	user, err := parseMillis(vals[0])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	global, err := parseMillis(vals[1])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return user, global, nil
}

func (l *RedisCallLog) RecordCall(ctx context.Context, userID string, at time.Time) error {
	ms := at.UnixMilli()
	pipe := l.client.TxPipeline()
	pipe.Set(ctx, l.userKey(userID), ms, l.ttl)
	pipe.Set(ctx, l.globalKey(), ms, l.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record llm call: %w", err)
	}
	return nil
}

func parseMillis(v any) (time.Time, error) {
	if v == nil {
		return time.Time{}, nil
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, errors.New("llm call log: unexpected value type")
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("llm call log: %w", err)
	}
	return time.UnixMilli(ms), nil
}
