package constants

import "time"

const (
	JWTSecretMinLength = 32

	MaxMessageLength      = 4000
	DefaultMaxRequestSize = 1 << 20

	DefaultHTTPPort = "8080"

	DefaultRequestTimeout = 5 * time.Second

	DefaultWebSocketWriteWait   = 10 * time.Second
	DefaultWebSocketPongWait    = 60 * time.Second
	DefaultWebSocketPingPeriod  = 54 * time.Second
	DefaultWebSocketMaxMsgSize  = 64 * 1024
	DefaultWebSocketSendBufSize = 256

	DefaultMessageRateLimit  = 5
	DefaultMessageRateWindow = 2 * time.Second
	RedisLimiterTimeout      = 250 * time.Millisecond

	DefaultCircuitBreakerThreshold = 20
	DefaultCircuitBreakerTimeout   = 5 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBQueryTimeout        = 30 * time.Second

	RedisPingTimeout = 5 * time.Second
	RelayChannel     = "hirehub:dispatch"

	RateLimitGeneralRequestsPerSecond = 20
	RateLimitGeneralBurst             = 40
	RateLimitSendRequestsPerSecond    = 5
	RateLimitSendBurst                = 10
	RateLimitCleanupInterval          = 5 * time.Minute

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28

	AcceptedGreeting = "hello"
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
