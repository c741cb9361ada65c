// Package resume derives each task's starting status from what is already on
// disk. It never talks to the network.
package resume

import (
	"context"
	"math"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/course-dl/internal/model"
	"github.com/ytget/course-dl/internal/platform"
	"github.com/ytget/course-dl/internal/remux"
)

// Defaults for judging a finished video
const (
	DefaultMinVideoBytes = 1024
	// DefaultDurationTolerance is the absolute slack in seconds; the relative
	// slack is DefaultDurationRatio of the expected duration, whichever is larger
	DefaultDurationTolerance = 2.0
	DefaultDurationRatio     = 0.02
)

// Checker inspects destination paths
type Checker struct {
	prober        remux.Prober
	minVideoBytes int64
	tolerance     float64
}

// Option configures a Checker
type Option func(*Checker)

// WithProber enables duration checks of finished videos
func WithProber(prober remux.Prober) Option {
	return func(c *Checker) {
		c.prober = prober
	}
}

// WithMinVideoBytes sets the smallest size a finished video may have
func WithMinVideoBytes(n int64) Option {
	return func(c *Checker) {
		if n > 0 {
			c.minVideoBytes = n
		}
	}
}

// WithDurationTolerance sets the absolute duration slack in seconds
func WithDurationTolerance(seconds float64) Option {
	return func(c *Checker) {
		if seconds >= 0 {
			c.tolerance = seconds
		}
	}
}

// New creates a Checker
func New(options ...Option) *Checker {
	c := &Checker{
		minVideoBytes: DefaultMinVideoBytes,
		tolerance:     DefaultDurationTolerance,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Check sets and returns the task's starting status. A task that already
// failed during resolution keeps its status.
func (c *Checker) Check(ctx context.Context, task *model.DownloadTask) model.TaskStatus {
	if task.Status == model.TaskStatusFailed && task.Content == nil {
		return task.Status
	}
	task.Present = nil

	switch task.Kind() {
	case model.ContentKindUnsupported:
		task.Status = model.TaskStatusSkipped
	case model.ContentKindVideo:
		task.Status = c.checkVideo(ctx, task)
	case model.ContentKindQuiz:
		task.Status = pendingUnless(fileExists(task.Path))
	default:
		size, ok := platform.FileSize(task.Path)
		task.Status = pendingUnless(ok && size > 0)
	}
	return task.Status
}

// CheckAll checks every task in order and returns how many ended in each
// status
func (c *Checker) CheckAll(ctx context.Context, tasks []*model.DownloadTask) map[model.TaskStatus]int {
	counts := make(map[model.TaskStatus]int)
	for _, task := range tasks {
		counts[c.Check(ctx, task)]++
	}
	log.WithFields(log.Fields{
		"done":    counts[model.TaskStatusDone],
		"resumed": counts[model.TaskStatusResumed],
		"pending": counts[model.TaskStatusPending],
		"skipped": counts[model.TaskStatusSkipped],
		"failed":  counts[model.TaskStatusFailed],
	}).Info("checked existing files")
	return counts
}

func (c *Checker) checkVideo(ctx context.Context, task *model.DownloadTask) model.TaskStatus {
	if size, ok := platform.FileSize(task.Path); ok && size >= c.minVideoBytes {
		if c.durationMatches(ctx, task) {
			return model.TaskStatusDone
		}
		log.WithField("task", task.Path).Warn("existing video has the wrong duration, downloading again")
	}

	if present := PresentSegments(task.PartsDir()); len(present) > 0 {
		task.Present = present
		return model.TaskStatusResumed
	}
	return model.TaskStatusPending
}

// durationMatches compares the probed duration with the expected one. Without
// an expected duration or a readable file duration the size check alone
// decides.
func (c *Checker) durationMatches(ctx context.Context, task *model.DownloadTask) bool {
	video, ok := task.Content.(model.VideoContent)
	if !ok || video.Duration <= 0 || c.prober == nil {
		return true
	}
	actual, err := c.prober.Duration(ctx, task.Path)
	if err != nil {
		log.WithField("task", task.Path).Debugf("cannot read duration: %v", err)
		return true
	}
	slack := math.Max(c.tolerance, video.Duration*DefaultDurationRatio)
	return math.Abs(actual-video.Duration) <= slack
}

// PresentSegments lists the indices of completed segments in dir, ascending.
// In-progress .part files are ignored.
func PresentSegments(dir string) []int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var present []int
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if index, ok := model.ParseSegmentName(entry.Name()); ok {
			present = append(present, index)
		}
	}
	sort.Ints(present)
	return present
}

func pendingUnless(done bool) model.TaskStatus {
	if done {
		return model.TaskStatusDone
	}
	return model.TaskStatusPending
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
