package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/ytget/course-dl/internal/model"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	// Create temporary directory for testing
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir", "nested")

	// Directory should not exist initially
	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	// Create directory
	err := CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	// Directory should now exist
	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	err = CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestFileSize(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "data.bin")

	if _, ok := FileSize(path); ok {
		t.Error("Expected missing file to report not found")
	}

	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	size, ok := FileSize(path)
	if !ok || size != 5 {
		t.Errorf("Expected size 5, got %d (ok=%v)", size, ok)
	}

	if _, ok := FileSize(tempDir); ok {
		t.Error("Expected directory to not count as a file")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "chapter", "quiz.html")

	if err := WriteFileAtomic(path, []byte("<html></html>")); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read result: %v", err)
	}
	if string(data) != "<html></html>" {
		t.Errorf("Unexpected content: %q", data)
	}

	if _, err := os.Stat(path + model.TempSuffix); !os.IsNotExist(err) {
		t.Error("Expected temp file to be gone after commit")
	}

	// Overwrite keeps the final name valid
	if err := WriteFileAtomic(path, []byte("v2")); err != nil {
		t.Fatalf("Second WriteFileAtomic failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "v2" {
		t.Errorf("Expected overwritten content, got %q", data)
	}
}

func TestClassifyWriteError(t *testing.T) {
	if ClassifyWriteError("op", nil) != nil {
		t.Error("Expected nil for nil error")
	}

	full := ClassifyWriteError("writing", &os.PathError{Op: "write", Path: "/x", Err: syscall.ENOSPC})
	if !model.IsKind(full, model.ErrorKindDisk) {
		t.Errorf("Expected disk error for ENOSPC, got %v", full)
	}
	if !model.IsFatal(full) {
		t.Error("Expected disk-full to be fatal")
	}

	other := ClassifyWriteError("writing", errors.New("broken pipe"))
	if model.IsKind(other, model.ErrorKindDisk) {
		t.Errorf("Expected generic error to stay unclassified, got %v", other)
	}
	if !strings.Contains(other.Error(), "writing") {
		t.Errorf("Expected op in message, got %v", other)
	}
}

func TestIsDiskFull(t *testing.T) {
	wrapped := fmt.Errorf("copy: %w", &os.PathError{Op: "write", Path: "/x", Err: syscall.ENOSPC})
	if !IsDiskFull(wrapped) {
		t.Error("Expected wrapped ENOSPC to be detected")
	}
	if IsDiskFull(errors.New("no space")) {
		t.Error("Expected plain error to not be detected")
	}
}

func TestOpenInFileManager_NonExistentDir(t *testing.T) {
	err := OpenInFileManager(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("Expected error for non-existent directory, got nil")
	}

	if !strings.Contains(err.Error(), "directory does not exist") {
		t.Errorf("Error message should contain 'directory does not exist', got: %v", err)
	}
}
