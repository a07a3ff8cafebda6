// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config controls where and how log lines are written.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // "json" or "text"
	Output string // "stdout" or a file path
}

// Init applies cfg to the standard logrus logger and returns it.
func Init(cfg Config) (*logrus.Logger, error) {
	l := logrus.StandardLogger()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	out, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}
	l.SetOutput(out)
	return l, nil
}

func openOutput(path string) (io.Writer, error) {
	if path == "" || path == "stdout" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
