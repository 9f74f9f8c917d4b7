// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atomicstack/gridcase/internal/logging"
)

// PlateYAML is a single unit quad on four nodes, named "plate".
const PlateYAML = `name: plate
nodes:
  - [1, 0, 0, 0]
  - [2, 1, 0, 0]
  - [3, 1, 1, 0]
  - [4, 0, 1, 0]
elements:
  - {id: 10, type: quad, nodes: [1, 2, 3, 4]}
`

// WriteFile writes body to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// LogToTemp points the shared log at a fresh temp directory for the life of
// the test and returns that directory.
func LogToTemp(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	logging.Configure(filepath.Join(dir, "gridcase.log"))
	t.Cleanup(logging.Sync)
	return dir
}

// ReadLog returns what has been written to the log configured by LogToTemp.
func ReadLog(t testing.TB, dir string) string {
	t.Helper()
	logging.Sync()
	data, err := os.ReadFile(filepath.Join(dir, "gridcase.log"))
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}
