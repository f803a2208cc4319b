package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupTestLogger(t *testing.T) string {
	t.Helper()
	Close()
	SetDebug(false)

	path := filepath.Join(t.TempDir(), "test.log")
	if err := Init(path); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	t.Cleanup(Close)
	return path
}

func TestInitWritesToFile(t *testing.T) {
	path := setupTestLogger(t)

	Info("saved template %s", "t1")
	ComponentLogger("store").Info("template saved", "revision", 3)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{"Logger initialized", "saved template t1", "component=store", "revision=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
	if Path() != path {
		t.Errorf("Path() = %q, want %q", Path(), path)
	}
}

func TestDebugLevel(t *testing.T) {
	path := setupTestLogger(t)

	Debug("hidden message")
	SetDebug(true)
	Debug("visible message")
	SetDebug(false)

	data, _ := os.ReadFile(path)
	out := string(data)
	if strings.Contains(out, "hidden message") {
		t.Error("debug message logged at info level")
	}
	if !strings.Contains(out, "visible message") {
		t.Error("debug message missing after SetDebug(true)")
	}
}

func TestInitWriter(t *testing.T) {
	Close()
	t.Cleanup(Close)

	var buf bytes.Buffer
	InitWriter(&buf)
	Error("boom %d", 42)

	if !strings.Contains(buf.String(), "boom 42") {
		t.Errorf("writer did not receive record: %q", buf.String())
	}
	if Path() != "" {
		t.Errorf("Path() should be empty for writer output, got %q", Path())
	}
}
