package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/hirehub/backend/internal/common/logger"
)

func TestNew_WithoutRedisAllowsEverything(t *testing.T) {
	l := New(nil, 1, time.Second, logger.NewDiscard())

	if _, ok := l.(Noop); !ok {
		t.Fatalf("expected Noop limiter, got %T", l)
	}
	for i := 0; i < 10; i++ {
		if !l.Allow(context.Background(), "a>b") {
			t.Fatalf("send %d was throttled", i)
		}
	}
}

func TestRedisLimiter_NilReceiverAllows(t *testing.T) {
	var l *RedisLimiter
	if !l.Allow(context.Background(), "a>b") {
		t.Fatal("nil limiter must fail open")
	}
}

func TestPairKey(t *testing.T) {
	if PairKey("a", "b") == PairKey("b", "a") {
		t.Fatal("pair keys must be directional")
	}
}
