// Package applog configures the process-wide structured logger (A2).
// The CLI and server front ends call New once at startup with the
// configured level/format and share the resulting *logrus.Logger for
// startup messages, generation tracing, and store-error reporting.
package applog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger configured from level/format (as loaded by
// internal/config). An unrecognized level falls back to Info; an
// unrecognized format falls back to the text formatter.
func New(level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Writer(os.Stderr))

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
