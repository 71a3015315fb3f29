package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"taskManager/internal/app"
	"taskManager/internal/config"
	"taskManager/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "конфигурация:", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Development); err != nil {
		fmt.Fprintln(os.Stderr, "логгер:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New(cfg).Run(ctx); err != nil {
		logger.Error("App: Сервис завершился с ошибкой", err)
		logger.Sync()
		os.Exit(1)
	}
}
