package platform

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/ytget/course-dl/internal/model"
)

func TestFreeSpace_MissingPathUsesAncestor(t *testing.T) {
	free, err := FreeSpace(filepath.Join(t.TempDir(), "not", "created", "yet"))
	if err != nil {
		t.Fatalf("Expected free space for missing path, got %v", err)
	}
	if free == 0 {
		t.Error("Expected non-zero free space on temp filesystem")
	}
}

func TestEnsureFreeSpace(t *testing.T) {
	dir := t.TempDir()

	if err := EnsureFreeSpace(dir, 0); err != nil {
		t.Errorf("Expected disabled check to pass, got %v", err)
	}

	if err := EnsureFreeSpace(dir, 1); err != nil {
		t.Errorf("Expected 1 byte to be available, got %v", err)
	}

	err := EnsureFreeSpace(dir, math.MaxInt64)
	if !model.IsKind(err, model.ErrorKindDisk) {
		t.Errorf("Expected disk error for impossible threshold, got %v", err)
	}
}
