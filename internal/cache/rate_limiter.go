package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-reservation/config"

	"github.com/redis/go-redis/v9"
)

// Decision 單次限流判斷結果
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type RateLimiter interface {
	// 消耗一個 token，bucket 空時回傳 Allowed=false 與建議等待時間
	Allow(ctx context.Context, subject string) (Decision, error)
}

type RedisRateLimiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
	now    func() time.Time
}

func NewRedisRateLimiter(client *redis.Client, cfg config.RateLimitConfig) RateLimiter {
	return &RedisRateLimiter{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

// tokenBucket 以 Lua 腳本確保讀取、補充、扣減為原子操作
var tokenBucket = redis.NewScript(`
	-- 1. 取得參數
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_ms = tonumber(ARGV[4])

	-- 2. 讀取目前狀態，不存在時視為滿桶
	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])
	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	-- 3. 依經過的 interval 數補充 token
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals)
		last_refill = last_refill + (intervals * interval_ms)
	end

	-- 4. 扣減
	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('PEXPIRE', key, ttl_ms)

	return {allowed, tokens, retry_after_ms}
`)

func (l *RedisRateLimiter) key(subject string) string {
	return fmt.Sprintf("%s:reservations:%s", l.cfg.Prefix, subject)
}

func (l *RedisRateLimiter) Allow(ctx context.Context, subject string) (Decision, error) {
	interval := l.cfg.RefillInterval
	if interval <= 0 {
		interval = time.Second
	}
	// 桶子補滿後就不需要保留狀態
	ttl := interval * time.Duration(l.cfg.Capacity+1)

	result, err := tokenBucket.Run(ctx, l.client, []string{l.key(subject)},
		l.now().UnixMilli(),
		l.cfg.Capacity,
		interval.Milliseconds(),
		ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Decision{}, err
	}
	if len(result) != 3 {
		return Decision{}, errors.New("unexpected rate limit script result")
	}

	return Decision{
		Allowed:    result[0] == 1,
		Remaining:  int(result[1]),
		RetryAfter: time.Duration(result[2]) * time.Millisecond,
	}, nil
}
