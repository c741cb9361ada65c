package model

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DownloadTask is one file to materialize on disk. Tasks are created by the
// planner, their status is set by the resume checker and then by the runner.
type DownloadTask struct {
	ID           string
	Lesson       *Lesson // lookup only
	ChapterPos   int
	ChapterTitle string
	Path         string // final destination
	Status       TaskStatus
	Content      Content
	Present      []int // segment indices already on disk when Resumed
	Attempts     int
	LastError    string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Kind returns the kind of the task's content
func (dt *DownloadTask) Kind() ContentKind {
	if dt.Content == nil {
		if dt.Lesson != nil {
			return dt.Lesson.Kind()
		}
		return ContentKindUnsupported
	}
	return dt.Content.Kind()
}

// TempPath returns the temporary name the task writes before renaming
func (dt *DownloadTask) TempPath() string {
	return dt.Path + TempSuffix
}

// PartsDir returns the segment directory used for video assembly
func (dt *DownloadTask) PartsDir() string {
	return dt.Path + PartsDirSuffix
}

// Elapsed returns how long the task ran, or zero if it never started
func (dt *DownloadTask) Elapsed() time.Duration {
	if dt.StartedAt.IsZero() || dt.FinishedAt.IsZero() {
		return 0
	}
	return dt.FinishedAt.Sub(dt.StartedAt)
}

// GetDisplayTitle returns a short label: chapter/lesson position and file name
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Path == "" {
		if dt.Lesson != nil {
			return dt.Lesson.Title
		}
		return dt.ID
	}

	filename := filepath.Base(dt.Path)
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		filename = filename[:idx]
	}
	if dt.ChapterPos > 0 {
		return fmt.Sprintf("[%d] %s", dt.ChapterPos, filename)
	}
	return filename
}

// Temp naming shared by the resume checker and the engine
const (
	TempSuffix     = ".part"
	PartsDirSuffix = ".parts"
	SegmentExt     = ".seg"
	JoinedName     = "joined"
)

// SegmentName returns the file name of the completed segment at index
func SegmentName(index int) string {
	return fmt.Sprintf("%05d%s", index, SegmentExt)
}

// ParseSegmentName returns the index of a completed segment file name
func ParseSegmentName(name string) (int, bool) {
	stem, ok := strings.CutSuffix(name, SegmentExt)
	if !ok || len(stem) != 5 {
		return 0, false
	}
	index, err := strconv.Atoi(stem)
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
