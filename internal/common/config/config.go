package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/hirehub/backend/internal/common/constants"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
)

type APIConfig struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	RedisAddr      string
	RedisPassword  string
	ClientURL      string
	RequestTimeout time.Duration

	WebSocketWriteWait   time.Duration
	WebSocketPongWait    time.Duration
	WebSocketPingPeriod  time.Duration
	WebSocketMaxMsgSize  int64
	WebSocketSendBufSize int

	MessageRateLimit  int
	MessageRateWindow time.Duration

	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
}

// LoadAPIConfig reads the process environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func LoadAPIConfig() (APIConfig, error) {
	_ = godotenv.Load()

	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return APIConfig{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return APIConfig{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return APIConfig{}, err
	}

	return APIConfig{
		HTTPPort:       getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:    databaseURL,
		JWTSecret:      jwtSecret,
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		ClientURL:      getEnv("CLIENT_URL", "http://localhost:5173"),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),

		WebSocketWriteWait:   getDurationEnv("WS_WRITE_WAIT", constants.DefaultWebSocketWriteWait),
		WebSocketPongWait:    getDurationEnv("WS_PONG_WAIT", constants.DefaultWebSocketPongWait),
		WebSocketPingPeriod:  getDurationEnv("WS_PING_PERIOD", constants.DefaultWebSocketPingPeriod),
		WebSocketMaxMsgSize:  getInt64Env("WS_MAX_MSG_SIZE", constants.DefaultWebSocketMaxMsgSize),
		WebSocketSendBufSize: getIntEnv("WS_SEND_BUF_SIZE", constants.DefaultWebSocketSendBufSize),

		MessageRateLimit:  getIntEnv("MESSAGE_RATE_LIMIT", constants.DefaultMessageRateLimit),
		MessageRateWindow: getDurationEnv("MESSAGE_RATE_WINDOW", constants.DefaultMessageRateWindow),

		CircuitBreakerThreshold: int32(getIntEnv("DB_BREAKER_THRESHOLD", constants.DefaultCircuitBreakerThreshold)),
		CircuitBreakerTimeout:   getDurationEnv("DB_BREAKER_TIMEOUT", constants.DefaultCircuitBreakerTimeout),
		CircuitBreakerReset:     getDurationEnv("DB_BREAKER_RESET", constants.DefaultCircuitBreakerReset),
	}, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return commonerrors.ErrInvalidJWTSecret.WithCause(fmt.Errorf("got %d bytes", len(secret)))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", commonerrors.ErrMissingRequiredEnv.WithCause(fmt.Errorf("%s", key))
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getInt64Env(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}
