package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/ytget/course-dl/internal/model"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		if err := os.MkdirAll(dirPath, DefaultDirPermissions); err != nil {
			return ClassifyWriteError("creating directory", err)
		}
	}
	return nil
}

// FileSize returns the size of a regular file and whether it exists
func FileSize(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return 0, false
	}
	return info.Size(), true
}

// WriteFileAtomic writes data to path through a temporary sibling and renames
// it into place, so path never holds partial content.
func WriteFileAtomic(path string, data []byte) error {
	if err := CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
		return err
	}

	tmp := path + model.TempSuffix
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, DefaultFilePermissions)
	if err != nil {
		return ClassifyWriteError("creating temp file", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return ClassifyWriteError("writing temp file", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return ClassifyWriteError("syncing temp file", err)
	}
	if err := f.Close(); err != nil {
		return ClassifyWriteError("closing temp file", err)
	}
	return CommitFile(tmp, path)
}

// CommitFile renames a completed temporary file to its final name
func CommitFile(tmp, final string) error {
	if err := os.Rename(tmp, final); err != nil {
		return ClassifyWriteError("renaming temp file", err)
	}
	return nil
}

// IsDiskFull reports whether err was caused by an exhausted filesystem
func IsDiskFull(err error) bool {
	return errors.Is(err, syscall.ENOSPC)
}

// ClassifyWriteError marks disk exhaustion as a fatal disk error and wraps
// everything else with op.
func ClassifyWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDiskFull(err) {
		return model.NewError(model.ErrorKindDisk, op, err)
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && errors.Is(err, fs.ErrPermission) {
		return model.NewError(model.ErrorKindDisk, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// OpenInFileManager opens a directory in the system file manager
func OpenInFileManager(dirPath string) error {
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("directory does not exist: %v", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, absPath).Run()
	case OSLinux:
		return openInManagerLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openInManagerLinux tries xdg-open and then common file managers
func openInManagerLinux(dir string) error {
	cmd := exec.Command(XDGOpenCommand, dir)
	if err := cmd.Run(); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Run()
		}
	}

	return fmt.Errorf("no suitable file manager found")
}
