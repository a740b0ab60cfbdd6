// Command notifier consumes the notifications queue and delivers invite
// emails. It shares its environment with the tenancy service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/app"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/jobs"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

func main() {
	cfg := app.LoadConfig()
	if cfg.RedisAddr == "" {
		log.Fatal("REDIS_ADDR is required")
	}

	logger := slogx.New(slogx.Config{
		Service: "tenancy-notifier",
		Version: app.BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	worker := jobs.NewWorker(jobs.WorkerConfig{
		Redis:           cfg.Redis(),
		Concurrency:     cfg.WorkerConcurrency,
		RetryBase:       cfg.WorkerRetryBase,
		ShutdownTimeout: cfg.ShutdownGracePeriod,
	}, &jobs.LogMailer{Logger: logger, FailureRate: cfg.NotifyFailureRate}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := worker.Run(ctx); err != nil {
		log.Fatalf("notifier error: %v", err)
	}
}
