// Package debug provides logging setup, block sanity checks and
// processing-time profiling.
package debug

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogConfig configures a logger
type LogConfig struct {
	Level  string    // logrus level name, "info" when empty
	JSON   bool      // JSON formatter instead of text
	Output io.Writer // os.Stderr when nil
}

// NewLogger builds a logger from the configuration
func NewLogger(cfg LogConfig) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}

	logger := logrus.New()
	logger.SetLevel(level)
	if cfg.Output != nil {
		logger.SetOutput(cfg.Output)
	} else {
		logger.SetOutput(os.Stderr)
	}
	if cfg.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// Discard returns a logger that writes nothing
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Component tags log entries with the component that produced them
func Component(logger logrus.FieldLogger, name string) *logrus.Entry {
	if logger == nil {
		logger = Discard()
	}
	return logger.WithField("component", name)
}
