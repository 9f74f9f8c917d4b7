package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestErrorWritesToConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gridcase.log")
	Configure(path)
	t.Cleanup(func() { Configure("") })

	Error(errors.New("catalog exploded"))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file, got %v", err)
	}
	if !strings.Contains(string(data), "catalog exploded") {
		t.Fatalf("expected error message in log, got %q", string(data))
	}
}

func TestTraceSkippedWhenDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	Configure(path)
	t.Cleanup(func() { Configure("") })
	SetTraceEnabled(false)

	Trace("registry.set-active", map[string]interface{}{"name": "main"})
	Sync()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file when tracing disabled, got %v", err)
	}
}

func TestTraceWritesJSONEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	Configure(path)
	SetTraceEnabled(true)
	t.Cleanup(func() {
		SetTraceEnabled(false)
		Configure("")
	})

	Trace("catalog.add", map[string]interface{}{"cases": 2})
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected trace file, got %v", err)
	}
	if !strings.Contains(string(data), `"event":"catalog.add"`) {
		t.Fatalf("expected event key in trace, got %q", string(data))
	}
}
