package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSinkWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "run.log")

	sink, err := New(Options{File: logPath, Level: "info"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sink.Info("converted", "file", "a.png", "saved", 1234)
	sink.Warn("wide image", "file", "pano.jpg")

	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "converted") || !strings.Contains(out, "a.png") {
		t.Errorf("info record missing from log: %q", out)
	}
	if !strings.Contains(out, "wide image") {
		t.Errorf("warn record missing from log: %q", out)
	}
}

func TestSinkAppends(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "run.log")

	for i := 0; i < 2; i++ {
		sink, err := New(Options{File: logPath, Level: "info"})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		sink.Info("run")
		if err := sink.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := strings.Count(string(data), "run"); got != 2 {
		t.Errorf("expected 2 records after two runs, got %d", got)
	}
}

func TestSinkLevelFilters(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "run.log")

	sink, err := New(Options{File: logPath, Level: "warn"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sink.Debug("quiet")
	sink.Info("also quiet")
	sink.Error("loud")
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "quiet") {
		t.Errorf("records below warn should be filtered: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("error record missing: %q", out)
	}
}

func TestSinkNoDestinations(t *testing.T) {
	sink, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sink.Info("dropped")
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
