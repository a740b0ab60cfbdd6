package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	defaultRetryBase     = 2 * time.Second
	maxRetryDelay        = 10 * time.Minute
	defaultConcurrency   = 10
	defaultShutdownGrace = 10 * time.Second
)

// WorkerConfig holds the configuration for the notification worker.
type WorkerConfig struct {
	Redis       RedisConfig
	Concurrency int

	// RetryBase is the first retry delay; each further retry doubles it.
	RetryBase time.Duration

	ShutdownTimeout time.Duration
}

// Worker consumes the notifications queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

// NewWorker creates a worker that delivers invites through mailer.
func NewWorker(cfg WorkerConfig, mailer Mailer, logger *slog.Logger) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = defaultRetryBase
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownGrace
	}

	server := asynq.NewServer(cfg.Redis.clientOpt(), asynq.Config{
		Concurrency:     cfg.Concurrency,
		Queues:          map[string]int{QueueNotifications: 1},
		RetryDelayFunc:  ExponentialRetryDelay(cfg.RetryBase),
		ShutdownTimeout: cfg.ShutdownTimeout,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Error("job failed",
				slog.String("job", task.Type()),
				slog.Int("retried", retried),
				slog.Int("max_retry", maxRetry),
				slog.Bool("skip_retry", errors.Is(err, asynq.SkipRetry)),
				slog.Any("error", err),
			)
		}),
	})

	return &Worker{server: server, mux: NewHandler(mailer, logger), logger: logger}
}

// ExponentialRetryDelay returns base, 2*base, 4*base ... capped at ten minutes.
func ExponentialRetryDelay(base time.Duration) asynq.RetryDelayFunc {
	return func(n int, _ error, _ *asynq.Task) time.Duration {
		if n < 0 {
			n = 0
		}
		if n > 20 {
			return maxRetryDelay
		}
		return min(base<<n, maxRetryDelay)
	}
}

// Run processes jobs until ctx is cancelled, then shuts down gracefully.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("starting notification worker", slog.String("queue", QueueNotifications))
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("worker start: %w", err)
	}

	<-ctx.Done()

	w.logger.Info("stopping notification worker")
	w.server.Shutdown()
	return nil
}

// NewHandler builds the task mux. The worker serves it and InlineDispatcher
// calls it directly.
func NewHandler(mailer Mailer, logger *slog.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	NewInviteEmailHandler(mailer, logger).RegisterHandlers(mux)
	return mux
}
