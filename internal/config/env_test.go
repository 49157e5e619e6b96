package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("RTS_TEST_STR", "value")
	t.Setenv("RTS_TEST_INT", "42")
	t.Setenv("RTS_TEST_BADINT", "forty")
	t.Setenv("RTS_TEST_DUR", "250ms")

	if got := GetEnv("RTS_TEST_STR", "x"); got != "value" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("RTS_TEST_UNSET", "x"); got != "x" {
		t.Errorf("GetEnv fallback = %q", got)
	}
	if got := GetEnvInt("RTS_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("RTS_TEST_BADINT", 7); got != 7 {
		t.Errorf("GetEnvInt malformed = %d, want fallback 7", got)
	}
	if got := GetEnvDuration("RTS_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Errorf("GetEnvDuration = %v", got)
	}
	if got := GetEnvDuration("RTS_TEST_UNSET", time.Second); got != time.Second {
		t.Errorf("GetEnvDuration fallback = %v", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("RTS_TEST_DOTENV=fromfile\nRTS_TEST_KEEP=fromfile\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RTS_TEST_KEEP", "fromenv")
	t.Setenv("RTS_TEST_DOTENV", "")
	os.Unsetenv("RTS_TEST_DOTENV")

	if err := Load(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := os.Getenv("RTS_TEST_DOTENV"); got != "fromfile" {
		t.Errorf("RTS_TEST_DOTENV = %q, want fromfile", got)
	}
	if got := os.Getenv("RTS_TEST_KEEP"); got != "fromenv" {
		t.Errorf("RTS_TEST_KEEP = %q, environment should win", got)
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "test", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "tick", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "tick=3") {
		t.Errorf("warn message missing: %q", out)
	}

	if fallback := newLogger(&buf, "", "bogus"); fallback.GetLevel() != log.InfoLevel {
		t.Errorf("bogus level = %v, want info", fallback.GetLevel())
	}
}
