package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/metrics"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/hibiken/asynq"
)

// Defaults for enqueued tasks.
const (
	DefaultMaxRetry  = 5
	DefaultRetention = 24 * time.Hour
	DefaultTimeout   = 30 * time.Second
)

// RedisConfig addresses the Redis instance behind the queue.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) clientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: c.Addr, Password: c.Password, DB: c.DB}
}

// DispatcherConfig controls task options.
type DispatcherConfig struct {
	MaxRetry int

	// Retention keeps completed tasks, and with them their ids, so a repeat
	// enqueue inside the window is recognised as a duplicate.
	Retention time.Duration

	Timeout time.Duration
}

// Dispatcher enqueues jobs on asynq. The task id is derived from the dedupe
// key, so asynq itself rejects a second enqueue of the same notification.
type Dispatcher struct {
	client *asynq.Client
	cfg    DispatcherConfig
}

func NewDispatcher(redis RedisConfig, cfg DispatcherConfig) *Dispatcher {
	if cfg.MaxRetry <= 0 {
		cfg.MaxRetry = DefaultMaxRetry
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Dispatcher{client: asynq.NewClient(redis.clientOpt()), cfg: cfg}
}

// TaskID is the asynq task id for a job and dedupe key.
func TaskID(jobName, dedupeKey string) string {
	return jobName + ":" + dedupeKey
}

// Enqueue puts a job on queue. A task id conflict means the job is already
// queued or recently done, and counts as success.
func (d *Dispatcher) Enqueue(ctx context.Context, queue, jobName string, payload any, dedupeKey string) error {
	l := slogx.FromContext(ctx)

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", jobName, err)
	}

	task := asynq.NewTask(jobName, data,
		asynq.Queue(queue),
		asynq.TaskID(TaskID(jobName, dedupeKey)),
		asynq.MaxRetry(d.cfg.MaxRetry),
		asynq.Retention(d.cfg.Retention),
		asynq.Timeout(d.cfg.Timeout),
	)

	info, err := d.client.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			metrics.JobsEnqueuedTotal.WithLabelValues(jobName, "duplicate").Inc()
			l.Debug("job already enqueued", slog.String("job", jobName), slog.String("queue", queue))
			return nil
		}
		metrics.JobsEnqueuedTotal.WithLabelValues(jobName, "error").Inc()
		if connectionError(err) {
			return fmt.Errorf("%w: enqueue %s: %w", ErrQueueUnavailable, jobName, err)
		}
		return fmt.Errorf("enqueue %s: %w", jobName, err)
	}

	metrics.JobsEnqueuedTotal.WithLabelValues(jobName, "enqueued").Inc()
	l.Info("job enqueued",
		slog.String("job", jobName),
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue),
	)
	return nil
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}
