package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// AttemptCounter is the storage behind LoginThrottle. pkg/util.RetryCounter
// implements it over Redis.
type AttemptCounter interface {
	Get(ctx context.Context, key string) (int64, error)
	IncrementAndGet(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

// LoginThrottle blocks a username after MaxFailures failed logins inside the
// counter's window. A nil *LoginThrottle allows everything.
type LoginThrottle struct {
	counter     AttemptCounter
	maxFailures int64
	logger      *zap.Logger
}

func NewLoginThrottle(counter AttemptCounter, maxFailures int, logger *zap.Logger) *LoginThrottle {
	return &LoginThrottle{
		counter:     counter,
		maxFailures: int64(maxFailures),
		logger:      logger,
	}
}

func failureKey(username string) string {
	return fmt.Sprintf("login:fail:%s", username)
}

// Allow reports whether username may attempt a login. Counter errors fail open.
func (t *LoginThrottle) Allow(ctx context.Context, username string) bool {
	if t == nil {
		return true
	}
	count, err := t.counter.Get(ctx, failureKey(username))
	if err != nil {
		t.logger.Warn("Login throttle check failed, allowing attempt",
			zap.String("username", username),
			zap.Error(err),
		)
		return true
	}
	return count < t.maxFailures
}

func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) {
	if t == nil {
		return
	}
	count, err := t.counter.IncrementAndGet(ctx, failureKey(username))
	if err != nil {
		t.logger.Warn("Failed to record login failure",
			zap.String("username", username),
			zap.Error(err),
		)
		return
	}
	if count >= t.maxFailures {
		t.logger.Info("Login throttled",
			zap.String("username", username),
			zap.Int64("failures", count),
		)
	}
}

func (t *LoginThrottle) RecordSuccess(ctx context.Context, username string) {
	if t == nil {
		return
	}
	if err := t.counter.Reset(ctx, failureKey(username)); err != nil {
		t.logger.Warn("Failed to reset login failures",
			zap.String("username", username),
			zap.Error(err),
		)
	}
}
