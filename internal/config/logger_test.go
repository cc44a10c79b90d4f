package config

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simp-lee/logger"
)

func boolPtr(b bool) *bool { return &b }

func TestSetupLogger_NilConfig(t *testing.T) {
	if _, err := SetupLogger(nil); err == nil {
		t.Fatal("SetupLogger(nil) expected error")
	}
}

func TestSetupLogger_LevelMapping(t *testing.T) {
	tests := []struct {
		level     string
		wantLevel slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{" debug ", slog.LevelDebug},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := SetupLogger(&LogConfig{Level: tt.level, Format: "text"})
			if err != nil {
				t.Fatalf("SetupLogger error: %v", err)
			}
			defer log.Close()

			if !log.Enabled(context.TODO(), tt.wantLevel) {
				t.Errorf("level %v should be enabled", tt.wantLevel)
			}
			if tt.wantLevel > slog.LevelDebug && log.Enabled(context.TODO(), tt.wantLevel-1) {
				t.Errorf("level %v should be disabled", tt.wantLevel-1)
			}
		})
	}
}

func TestSetupLogger_SetsDefault(t *testing.T) {
	log, err := SetupLogger(&LogConfig{Level: "warn", Format: "json", Color: boolPtr(false)})
	if err != nil {
		t.Fatalf("SetupLogger error: %v", err)
	}
	defer log.Close()

	if slog.Default().Handler() != log.Handler() {
		t.Error("SetupLogger did not install the default logger")
	}
}

func TestSetupLogger_WithFile(t *testing.T) {
	log, err := SetupLogger(&LogConfig{
		Level:           "info",
		Format:          "json",
		FilePath:        filepath.Join(t.TempDir(), "admin.log"),
		MaxSizeMB:       5,
		RetentionDays:   3,
		MaxBackups:      2,
		CompressRotated: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("SetupLogger error: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestBuildLoggerOpts_Count(t *testing.T) {
	const console = 4
	const file = console + 2

	tests := []struct {
		name string
		cfg  *LogConfig
		want int
	}{
		{"nil", nil, 0},
		{"console", &LogConfig{Level: "info", Format: "text"}, console},
		{"color off", &LogConfig{Level: "info", Format: "text", Color: boolPtr(false)}, console},
		{"rotation ignored without file", &LogConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 2}, console},
		{"file", &LogConfig{Level: "info", Format: "json", FilePath: "x.log"}, file},
		{"file with rotation", &LogConfig{FilePath: "x.log", MaxSizeMB: 10, RetentionDays: 7, MaxBackups: 3, CompressRotated: boolPtr(false)}, file + 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(BuildLoggerOpts(tt.cfg)); got != tt.want {
				t.Errorf("len(BuildLoggerOpts()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	base, err := logger.New(
		logger.WithConsoleWriter(&buf),
		logger.WithConsoleFormat(logger.FormatText),
		logger.WithConsoleColor(false),
		logger.WithLevel(slog.LevelInfo),
	)
	if err != nil {
		t.Fatalf("logger.New error: %v", err)
	}
	defer base.Close()

	Component(base.Logger, "backend").Info("call")
	if out := buf.String(); !strings.Contains(out, "component") || !strings.Contains(out, "backend") {
		t.Errorf("log output = %q, want component attribute", buf.String())
	}

	if Component(nil, "x") == nil {
		t.Error("Component(nil) should fall back to the default logger")
	}
}
