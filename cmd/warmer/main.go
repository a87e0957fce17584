package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/avelar/linkshort/internal/cachewarm"
	"github.com/avelar/linkshort/internal/container"
	"github.com/samber/do"
	"go.uber.org/zap"
)

func main() {
	opts := &container.Options{
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.ListenerPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	listener := do.MustInvoke[*cachewarm.Listener](injector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := listener.Start(ctx); err != nil {
		logger.Fatal("failed to start listener", zap.Error(err))
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}
