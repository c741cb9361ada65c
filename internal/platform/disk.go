package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/ytget/course-dl/internal/model"
)

// FreeSpace returns the bytes available on the filesystem holding path. When
// path does not exist yet the nearest existing ancestor is probed.
func FreeSpace(path string) (uint64, error) {
	probe, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("failed to get absolute path: %w", err)
	}
	for {
		if _, err := os.Stat(probe); err == nil {
			break
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			break
		}
		probe = parent
	}

	usage, err := disk.Usage(probe)
	if err != nil {
		return 0, fmt.Errorf("reading disk usage for %s: %w", probe, err)
	}
	return usage.Free, nil
}

// EnsureFreeSpace returns a fatal disk error when less than minFree bytes are
// available under path. A probe failure is not treated as disk-full.
func EnsureFreeSpace(path string, minFree int64) error {
	if minFree <= 0 {
		return nil
	}
	free, err := FreeSpace(path)
	if err != nil {
		return nil
	}
	if free < uint64(minFree) {
		return model.Errorf(model.ErrorKindDisk, "checking free space",
			"only %d bytes free under %s, need at least %d", free, path, minFree)
	}
	return nil
}
