package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hirehub/backend/internal/common/constants"
	"github.com/hirehub/backend/internal/common/logger"
)

// Limiter throttles message sends. Allow reports whether one more send under
// key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window counter shared by every API instance. It
// fails open: a Redis error lets the send through.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	script *redis.Script
	log    *logger.Logger
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, prefix string, log *logger.Logger) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
		script: redis.NewScript(rateLimitScript),
		log:    log,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	if l.limit <= 0 || l.window <= 0 || key == "" {
		return true
	}

	redisKey := key
	if l.prefix != "" {
		redisKey = l.prefix + ":" + key
	}
	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RedisLimiterTimeout)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{redisKey}, ttl, l.limit).Int64()
	if err != nil {
		if l.log != nil {
			l.log.Warnf("send limiter unavailable, allowing key=%s: %v", redisKey, err)
		}
		return true
	}
	return allowed == 1
}

type Noop struct{}

func (Noop) Allow(context.Context, string) bool { return true }

// New picks the Redis limiter when a client is configured.
func New(client *redis.Client, limit int, window time.Duration, log *logger.Logger) Limiter {
	if l := NewRedisLimiter(client, limit, window, "hirehub:send", log); l != nil {
		return l
	}
	return Noop{}
}

// PairKey buckets sends per sender and receiver.
func PairKey(senderID, receiverID string) string {
	return senderID + ">" + receiverID
}
