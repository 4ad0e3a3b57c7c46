// Package testutil contains helpers shared by the package tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

var (
	testRunDir     string
	testRunDirOnce sync.Once
)

// GetTestRunDir returns a directory shared by every test of this process,
// created under the system temp directory on first use.
func GetTestRunDir() string {
	testRunDirOnce.Do(func() {
		name := fmt.Sprintf("%s-%d", time.Now().Format("20060102-150405"), os.Getpid())
		dir := filepath.Join(os.TempDir(), "shaderbuild-test-runs", name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			panic(fmt.Sprintf("failed to create test run directory: %v", err))
		}
		testRunDir = dir
	})
	return testRunDir
}

// TempDir creates a temporary directory matching pattern under the test run
// directory and removes it when the test finishes.
func TempDir(t testing.TB, pattern string) string {
	t.Helper()
	dir, err := os.MkdirTemp(GetTestRunDir(), pattern)
	if err != nil {
		t.Fatalf("failed to create temp directory: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return dir
}

// WriteFiles creates empty or populated files relative to dir. Keys are
// slash-separated paths; parent directories are created as needed.
func WriteFiles(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}
