package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupFile(t *testing.T, level string) string {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "modelview.log")
	opts := Options{
		Level: level,
		File:  Rotation{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1},
		Quiet: true,
	}
	if err := Setup(opts); err != nil {
		t.Fatalf("failed to set up logger: %v", err)
	}
	return logFile
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	Sync()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(content)
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{
			level:    "error",
			expected: []string{"ERROR"},
			excluded: []string{"WARN", "INFO", "DEBUG"},
		},
		{
			level:    "warn",
			expected: []string{"ERROR", "WARN"},
			excluded: []string{"INFO", "DEBUG"},
		},
		{
			level:    "info",
			expected: []string{"ERROR", "WARN", "INFO"},
			excluded: []string{"DEBUG"},
		},
		{
			level:    "debug",
			expected: []string{"ERROR", "WARN", "INFO", "DEBUG"},
		},
		{
			level:    "bogus",
			expected: []string{"ERROR", "WARN", "INFO"},
			excluded: []string{"DEBUG"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := setupFile(t, tt.level)

			Log.Debug("mesh imported")
			Log.Info("model loaded")
			Log.Warn("texture missing")
			Log.Error("normalize failed")
			logContent := readLog(t, logFile)

			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestUnknownLevelIsReported(t *testing.T) {
	logFile := setupFile(t, "verbose")

	content := readLog(t, logFile)
	if !strings.Contains(content, "unknown log level") || !strings.Contains(content, "verbose") {
		t.Errorf("expected a warning naming the level in %q", content)
	}
}

func TestNamedLogger(t *testing.T) {
	logFile := setupFile(t, "debug")

	Named("importer").Info("scene imported")

	content := readLog(t, logFile)
	if !strings.Contains(content, "importer") {
		t.Errorf("expected component name in %q", content)
	}
	if !strings.Contains(content, "scene imported") {
		t.Errorf("expected message in %q", content)
	}
}

func TestSetupWithoutSink(t *testing.T) {
	before := Log
	err := Setup(Options{Level: "info", Quiet: true})
	if !errors.Is(err, ErrNoSink) {
		t.Fatalf("expected ErrNoSink, got %v", err)
	}
	if Log != before {
		t.Error("a failed setup must keep the previous logger")
	}
}

func TestRotatingFile(t *testing.T) {
	cfg := RotatingFile("/tmp/modelview.log")

	if cfg.Path != "/tmp/modelview.log" {
		t.Errorf("expected path /tmp/modelview.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 10 {
		t.Errorf("expected MaxSizeMB 10, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays != 14 {
		t.Errorf("expected MaxAgeDays 14, got %d", cfg.MaxAgeDays)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
