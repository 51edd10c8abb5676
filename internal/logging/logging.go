package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

// InitLogger configures the process-wide logger. Only the first call has any
// effect.
func InitLogger(level logrus.Level) *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stdout)
		logger.SetLevel(level)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	})
	return logger
}

// GetLogger returns the process-wide logger, initializing it at info level if
// InitLogger was never called.
func GetLogger() *logrus.Logger {
	return InitLogger(logrus.InfoLevel)
}

// ParseLevel maps a config string to a logrus level, falling back to info.
func ParseLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
