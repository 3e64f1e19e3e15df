package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// initLogger инициализирует логгер: JSON и Info для продакшена, текст и
// Debug для остальных окружений. LOG_LEVEL переопределяет уровень.
func initLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	logger.SetFormatter(new(logrus.JSONFormatter))
	logger.SetLevel(logrus.InfoLevel)

	if os.Getenv("GIN_MODE") != "release" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(new(logrus.TextFormatter))
	}

	if rawLevel := os.Getenv("LOG_LEVEL"); rawLevel != "" {
		level, err := logrus.ParseLevel(rawLevel)
		if err != nil {
			logger.WithField("LOG_LEVEL", rawLevel).Warn("unknown log level, keeping default")
		} else {
			logger.SetLevel(level)
		}
	}

	return logger
}
