package config

import (
	"errors"
	"testing"
	"time"

	"github.com/hirehub/backend/internal/common/constants"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func TestLoadAPIConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", validSecret)
	t.Setenv("DATABASE_URL", "postgres://localhost/hirehub")

	cfg, err := LoadAPIConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != constants.DefaultHTTPPort {
		t.Errorf("expected default port, got %q", cfg.HTTPPort)
	}
	if cfg.WebSocketPongWait != constants.DefaultWebSocketPongWait {
		t.Errorf("unexpected pong wait %v", cfg.WebSocketPongWait)
	}
	if cfg.MessageRateLimit != constants.DefaultMessageRateLimit {
		t.Errorf("unexpected rate limit %d", cfg.MessageRateLimit)
	}
}

func TestLoadAPIConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", validSecret)
	t.Setenv("DATABASE_URL", "postgres://localhost/hirehub")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("WS_PONG_WAIT", "30s")
	t.Setenv("WS_SEND_BUF_SIZE", "16")
	t.Setenv("DB_BREAKER_THRESHOLD", "3")
	t.Setenv("MESSAGE_RATE_WINDOW", "not-a-duration")

	cfg, err := LoadAPIConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("expected 9090, got %q", cfg.HTTPPort)
	}
	if cfg.WebSocketPongWait != 30*time.Second {
		t.Errorf("expected 30s, got %v", cfg.WebSocketPongWait)
	}
	if cfg.WebSocketSendBufSize != 16 {
		t.Errorf("expected 16, got %d", cfg.WebSocketSendBufSize)
	}
	if cfg.CircuitBreakerThreshold != 3 {
		t.Errorf("expected 3, got %d", cfg.CircuitBreakerThreshold)
	}
	if cfg.MessageRateWindow != constants.DefaultMessageRateWindow {
		t.Errorf("unparsable duration should fall back, got %v", cfg.MessageRateWindow)
	}
}

func TestLoadAPIConfig_Required(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		dbURL  string
		want   error
	}{
		{"missing secret", "", "postgres://localhost/hirehub", commonerrors.ErrMissingRequiredEnv},
		{"short secret", "short", "postgres://localhost/hirehub", commonerrors.ErrInvalidJWTSecret},
		{"missing database url", validSecret, "", commonerrors.ErrMissingRequiredEnv},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("DATABASE_URL", tt.dbURL)

			_, err := LoadAPIConfig()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
