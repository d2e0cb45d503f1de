package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hirehub/backend/internal/common/config"
	"github.com/hirehub/backend/internal/common/constants"
	"github.com/hirehub/backend/internal/common/db"
	"github.com/hirehub/backend/internal/common/logger"
)

type App struct {
	Log       *logger.Logger
	Pool      *pgxpool.Pool
	TxManager db.TxManager
	// Redis is nil when REDIS_ADDR is unset or unreachable at startup; the
	// API then runs as a single instance with the allow-all send limiter.
	Redis *redis.Client
}

type APIApp struct {
	App
	Config config.APIConfig
}

func NewAPIApp(ctx context.Context) (*APIApp, error) {
	log, err := initializeLogger("api")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadAPIConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
		return nil, err
	}

	app, err := initializeApp(ctx, log, cfg)
	if err != nil {
		return nil, err
	}

	return &APIApp{
		App:    *app,
		Config: cfg,
	}, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warnf("failed to close redis client: %v", err)
		}
	}
	a.Pool.Close()
}

func initializeApp(ctx context.Context, log *logger.Logger, cfg config.APIConfig) (*App, error) {
	pool := db.NewPool(ctx, log, cfg.DatabaseURL)
	if pool == nil {
		return nil, fmt.Errorf("failed to initialize database pool")
	}

	return &App{
		Log:       log,
		Pool:      pool,
		TxManager: db.NewTxManager(pool),
		Redis:     connectRedis(ctx, log, cfg.RedisAddr, cfg.RedisPassword),
	}, nil
}

func connectRedis(ctx context.Context, log *logger.Logger, addr, password string) *redis.Client {
	if addr == "" {
		log.Info("REDIS_ADDR not set, running without cross-instance relay")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, constants.RedisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warnf("redis unreachable at %s, running without cross-instance relay: %v", addr, err)
		_ = client.Close()
		return nil
	}

	log.Infof("redis connected at %s", addr)
	return client
}

func initializeLogger(serviceName string) (*logger.Logger, error) {
	return logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
}
