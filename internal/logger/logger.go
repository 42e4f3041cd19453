// Package logger owns the process-wide structured logger: JSON output,
// level picked from LOG_LEVEL.
package logger

import (
	"sync"

	"github.com/sirupsen/logrus"

	"movierealm/internal/config"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

func Init() {
	logger = logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(level())
}

func Get() *logrus.Logger {
	once.Do(func() {
		if logger == nil {
			Init()
		}
	})
	return logger
}

func level() logrus.Level {
	lvl, err := logrus.ParseLevel(config.GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
