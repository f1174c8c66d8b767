// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pario-ai/sgpt/pkg/config"
)

// Init applies the configured level and format. Output goes to stderr so
// stdout carries only the completion text.
func Init(cfg config.LogConfig) {
	InitWithOutput(cfg, os.Stderr)
}

// InitWithOutput is Init with an explicit writer.
func InitWithOutput(cfg config.LogConfig, out io.Writer) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("invalid log level %q, using warn: %v", cfg.Level, err)
		level = logrus.WarnLevel
	}
	logrus.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	logrus.SetOutput(out)
}
