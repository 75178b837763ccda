package applog_test

import (
	"testing"

	"github.com/sirupsen/logrus"

	"fungen.dev/internal/applog"
)

func TestNewDefaultsUnknownLevel(t *testing.T) {
	log := applog.New("nonsense", "text")
	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected InfoLevel fallback, got %v", log.GetLevel())
	}
}

func TestNewJSONFormatter(t *testing.T) {
	log := applog.New("debug", "json")
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected DebugLevel, got %v", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected JSONFormatter, got %T", log.Formatter)
	}
}

func TestNewTextFormatterDefault(t *testing.T) {
	log := applog.New("warn", "")
	if _, ok := log.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("expected TextFormatter, got %T", log.Formatter)
	}
}
