//go:build !integration

package testutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stardust-engine/shaderbuild/pkg/testutil"
)

func TestGetTestRunDir(t *testing.T) {
	dir := testutil.GetTestRunDir()

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("test run directory does not exist: %s", dir)
	}

	if !strings.Contains(dir, "test-runs") {
		t.Errorf("test run directory should contain 'test-runs', got: %s", dir)
	}

	if dir2 := testutil.GetTestRunDir(); dir != dir2 {
		t.Errorf("GetTestRunDir should return same directory, got %s and %s", dir, dir2)
	}
}

func TestTempDir(t *testing.T) {
	tempDir := testutil.TempDir(t, "test-pattern-*")

	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		t.Errorf("temp directory does not exist: %s", tempDir)
	}

	if !strings.HasPrefix(tempDir, testutil.GetTestRunDir()) {
		t.Errorf("temp directory should be under test run directory, got: %s", tempDir)
	}

	if !strings.Contains(filepath.Base(tempDir), "test-pattern-") {
		t.Errorf("temp directory should contain pattern, got: %s", tempDir)
	}
}

func TestWriteFiles(t *testing.T) {
	tempDir := testutil.TempDir(t, "write-files-*")

	testutil.WriteFiles(t, tempDir, map[string]string{
		"Shaders/basic.vert":  "#version 450\n",
		"Shaders/hlsl/a.frag": "",
	})

	content, err := os.ReadFile(filepath.Join(tempDir, "Shaders", "basic.vert"))
	if err != nil {
		t.Fatalf("expected file to be written: %v", err)
	}
	if string(content) != "#version 450\n" {
		t.Errorf("unexpected content %q", content)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "Shaders", "hlsl", "a.frag")); err != nil {
		t.Errorf("expected nested file to exist: %v", err)
	}
}
