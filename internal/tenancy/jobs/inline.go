package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/metrics"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/hibiken/asynq"
)

// InlineDispatcher runs jobs in-process on the same handlers the worker
// uses. It is for development without Redis: nothing survives a restart and
// a failed job is not retried, but dedupe keys are honoured for Retention.
type InlineDispatcher struct {
	handler   asynq.Handler
	retention time.Duration
	logger    *slog.Logger

	// Clock defaults to time.Now.
	Clock func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
	wg   sync.WaitGroup
}

func NewInlineDispatcher(handler asynq.Handler, retention time.Duration, logger *slog.Logger) *InlineDispatcher {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &InlineDispatcher{
		handler:   handler,
		retention: retention,
		logger:    logger,
		seen:      make(map[string]time.Time),
	}
}

func (d *InlineDispatcher) Enqueue(ctx context.Context, queue, jobName string, payload any, dedupeKey string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", jobName, err)
	}

	id := TaskID(jobName, dedupeKey)
	now := d.now()

	d.mu.Lock()
	d.pruneLocked(now)
	if _, ok := d.seen[id]; ok {
		d.mu.Unlock()
		metrics.JobsEnqueuedTotal.WithLabelValues(jobName, "duplicate").Inc()
		return nil
	}
	d.seen[id] = now
	d.mu.Unlock()

	metrics.JobsEnqueuedTotal.WithLabelValues(jobName, "enqueued").Inc()

	task := asynq.NewTask(jobName, data)
	ctx = slogx.WithContext(context.WithoutCancel(ctx), d.logger)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.handler.ProcessTask(ctx, task); err != nil {
			d.logger.Error("inline job failed",
				slog.String("job", jobName),
				slog.String("queue", queue),
				slog.Any("error", err),
			)
			// Let a later enqueue try again.
			d.mu.Lock()
			delete(d.seen, id)
			d.mu.Unlock()
		}
	}()
	return nil
}

// pruneLocked forgets keys whose retention has passed.
func (d *InlineDispatcher) pruneLocked(now time.Time) {
	for id, at := range d.seen {
		if now.Sub(at) >= d.retention {
			delete(d.seen, id)
		}
	}
}

func (d *InlineDispatcher) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

// Close waits for running jobs.
func (d *InlineDispatcher) Close() error {
	d.wg.Wait()
	return nil
}
