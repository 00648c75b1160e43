// Package main — точка входа SharkSpin: HTTP API мини-приложения и Telegram-бот.
// Поддерживает graceful shutdown по SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/sharkspin/internal/app"
	"serotonyl.ru/sharkspin/internal/config"
)

func main() {
	setupLogging()

	log.Info("=== SharkSpin запускается ===")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Не удалось загрузить конфигурацию")
	}

	applyLogLevel(cfg.AppLogLevel)
	if !cfg.IsDevelopment() {
		log.SetFormatter(&log.JSONFormatter{})
	}

	// Ctrl+C, docker stop
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Не удалось инициализировать приложение")
	}
	defer application.Close()

	log.Info("=== SharkSpin готов к работе ===")

	if err := application.Run(ctx); err != nil {
		log.WithError(err).Error("Приложение остановлено с ошибкой")
		return
	}

	log.Info("=== SharkSpin остановлен ===")
}

// setupLogging настраивает формат логов.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}

// applyLogLevel выставляет уровень из APP_LOG_LEVEL. Нераспознанное
// значение — предупреждение и уровень info.
func applyLogLevel(raw string) {
	level, err := log.ParseLevel(raw)
	if err != nil {
		log.WithError(err).WithField("value", raw).Warn("Некорректный APP_LOG_LEVEL, используется info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
