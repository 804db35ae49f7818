package logger

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zap.DebugLevel,
		"INFO":  zap.InfoLevel,
		"warn":  zap.WarnLevel,
		"error": zap.ErrorLevel,
		"":      zap.InfoLevel,
		"bogus": zap.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromContextAddsRunFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := Logger
	Logger = zap.New(core)
	defer func() { Logger = prev }()

	ctx := WithDate(WithRunID(context.Background(), "run-1"), "2023-03-15")
	FromContext(ctx).Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["run_id"] != "run-1" {
		t.Errorf("run_id = %v", fields["run_id"])
	}
	if fields["target_date"] != "2023-03-15" {
		t.Errorf("target_date = %v", fields["target_date"])
	}
}

func TestNewProductionLoggerCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	l, err := NewProductionLogger(Options{File: path, Level: "info"})
	if err != nil {
		t.Fatalf("NewProductionLogger: %v", err)
	}
	l.Info("written")
	_ = l.Sync()
}

func TestSetLevelAdjustsBuiltLogger(t *testing.T) {
	l, err := New(Options{Development: true, Level: "warn"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer SetLevel(zap.InfoLevel)

	if l.Core().Enabled(zap.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	SetLevel(zap.DebugLevel)
	if !l.Core().Enabled(zap.DebugLevel) {
		t.Error("debug should be enabled after SetLevel")
	}
}

func TestShortCaller(t *testing.T) {
	caller := zapcore.NewEntryCaller(0, "/src/dailyimage/pkg/daily/generator.go", 42, true)
	got := shortCaller(caller)
	if want := "daily/generator.go:42"; got[:len(want)] != want {
		t.Errorf("shortCaller = %q, want prefix %q", got, want)
	}
	if len(got) != 28 {
		t.Errorf("expected padded width 28, got %d", len(got))
	}
}
