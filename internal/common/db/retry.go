package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"

	"github.com/hirehub/backend/internal/common/logger"
)

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

var DefaultRetryConfig = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: 50 * time.Millisecond,
	MaxDelay:     time.Second,
	Multiplier:   2.0,
}

// Connection failures, serialization failures, deadlocks and lock timeouts
// are worth another attempt; everything else is returned as is.
var retryableCodes = map[string]struct{}{
	"08000": {}, "08001": {}, "08003": {}, "08004": {}, "08006": {}, "08007": {}, "08P01": {},
	"40001": {}, "40P01": {},
	"55P03": {},
}

func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := retryableCodes[pgErr.Code]
		return ok
	}
	return false
}

// Retry runs a read-only operation, backing off between retryable failures.
func Retry(ctx context.Context, log *logger.Logger, operation string, fn func(context.Context) error) error {
	return RetryWithBackoff(ctx, log, DefaultRetryConfig, operation, fn)
}

func RetryWithBackoff(ctx context.Context, log *logger.Logger, config RetryConfig, operation string, fn func(context.Context) error) error {
	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				log.Infof("%s succeeded after %d attempts", operation, attempt)
			}
			return nil
		}

		lastErr = err

		if !isRetryableError(err) {
			return err
		}

		if attempt == config.MaxAttempts {
			break
		}

		log.WithFields(ctx, logger.Fields{
			"operation": operation,
			"attempt":   attempt,
		}).Warnf("database operation failed: %v, retrying in %v", err, delay)

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * config.Multiplier)
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, config.MaxAttempts, lastErr)
}
