package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/config"
	"github.com/riskibarqy/sport-alerts/internal/interfaces/scheduler"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
)

func main() {
	cfg, err := config.LoadScheduler()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", "sport-alerts-scheduler", "env", cfg.AppEnv)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	s, err := scheduler.New(scheduler.Config{
		CronSpec:         cfg.CronSpec,
		TargetBaseURL:    cfg.TargetBaseURL,
		InternalJobToken: cfg.InternalJobToken,
		Timeout:          cfg.Timeout,
	}, logger)
	if err != nil {
		logger.Error("build scheduler", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RunOnStart {
		_ = s.Trigger(ctx)
	}
	s.Start()
	logger.Info("scheduler running", "spec", cfg.CronSpec)

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout+5*time.Second)
	defer cancel()
	s.Stop(stopCtx)
}
