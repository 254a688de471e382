package logger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

type redisStartKey struct{}

// RedisHook logs failed and slow redis commands
type RedisHook struct {
	SlowThreshold time.Duration
}

// NewRedisHook returns a hook flagging commands slower than 100ms
func NewRedisHook() *RedisHook {
	return &RedisHook{SlowThreshold: 100 * time.Millisecond}
}

func (h *RedisHook) BeforeProcess(ctx context.Context, cmd redis.Cmder) (context.Context, error) {
	return context.WithValue(ctx, redisStartKey{}, time.Now()), nil
}

func (h *RedisHook) AfterProcess(ctx context.Context, cmd redis.Cmder) error {
	start, ok := ctx.Value(redisStartKey{}).(time.Time)
	if !ok {
		return nil
	}
	elapsed := time.Since(start)

	fields := []any{
		slog.String("command", cmd.Name()),
		slog.Duration("latency", elapsed),
	}

	if err := cmd.Err(); err != nil {
		// A miss is not an error worth logging.
		if errors.Is(err, redis.Nil) {
			return nil
		}
		slog.ErrorContext(ctx, "Redis Error", append(fields, slog.Any("err", err))...)
		return nil
	}

	if elapsed > h.SlowThreshold {
		slog.WarnContext(ctx, "Redis Slow", fields...)
	}
	return nil
}

func (h *RedisHook) BeforeProcessPipeline(ctx context.Context, cmds []redis.Cmder) (context.Context, error) {
	return context.WithValue(ctx, redisStartKey{}, time.Now()), nil
}

func (h *RedisHook) AfterProcessPipeline(ctx context.Context, cmds []redis.Cmder) error {
	start, ok := ctx.Value(redisStartKey{}).(time.Time)
	if !ok {
		return nil
	}
	elapsed := time.Since(start)

	for _, cmd := range cmds {
		if err := cmd.Err(); err != nil && !errors.Is(err, redis.Nil) {
			slog.ErrorContext(ctx, "Redis Pipeline Error",
				slog.Int("cmd_count", len(cmds)),
				slog.Duration("latency", elapsed),
				slog.Any("err", err))
			return nil
		}
	}
	return nil
}
