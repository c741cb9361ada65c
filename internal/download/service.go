package download

import (
	"context"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/course-dl/internal/model"
	"github.com/ytget/course-dl/internal/platform"
	"github.com/ytget/course-dl/internal/remux"
)

// Defaults
const (
	DefaultSegmentSize = 8 << 20
	// progressStep is the smallest change reported to the progress callback
	progressStep = 0.01
)

// Engine executes tasks. It is safe for concurrent use as long as every task
// has a distinct destination path.
type Engine struct {
	fetcher     Fetcher
	remuxer     remux.Remuxer
	segmentSize int64
	minFree     int64
	quality     string
	onProgress  ProgressFunc
}

// Option configures an Engine
type Option func(*Engine)

// WithSegmentSize sets the byte range fetched per progressive video segment
func WithSegmentSize(size int64) Option {
	return func(e *Engine) {
		if size > 0 {
			e.segmentSize = size
		}
	}
}

// WithMinFreeBytes makes tasks fail with a disk error when the output
// filesystem has less than n bytes available
func WithMinFreeBytes(n int64) Option {
	return func(e *Engine) {
		e.minFree = n
	}
}

// WithQuality sets the height preference used to pick an HLS variant
func WithQuality(quality string) Option {
	return func(e *Engine) {
		e.quality = quality
	}
}

// WithProgress sets the progress callback. It is called from the goroutine
// executing the task.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.onProgress = fn
	}
}

// NewEngine creates an engine. A nil remuxer makes progressive videos be
// committed without remuxing and HLS videos fail.
func NewEngine(fetcher Fetcher, remuxer remux.Remuxer, options ...Option) *Engine {
	e := &Engine{
		fetcher:     fetcher,
		remuxer:     remuxer,
		segmentSize: DefaultSegmentSize,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Execute materializes task.Path from the task's content
func (e *Engine) Execute(ctx context.Context, task *model.DownloadTask) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(task.Path)); err != nil {
		return err
	}
	if err := platform.EnsureFreeSpace(filepath.Dir(task.Path), e.minFree); err != nil {
		return err
	}

	logger := log.WithField("task", task.Path)
	switch content := task.Content.(type) {
	case model.VideoContent:
		logger.Infof("downloading %s video", content.Quality)
		return e.executeVideo(ctx, task, content)
	case model.FileContent:
		logger.Info("downloading file")
		return e.executeFile(ctx, task, content)
	case model.QuizContent:
		logger.Info("rendering quiz page")
		return e.executeQuiz(task, content)
	case model.TextContent:
		logger.Info("saving text page")
		return e.executeText(task, content)
	case model.UnsupportedContent:
		return nil
	default:
		return model.Errorf(model.ErrorKindParse, "executing "+task.GetDisplayTitle(), "task has no resolved content")
	}
}

// progress throttles calls to the engine's progress callback for one task
type progress struct {
	fn   ProgressFunc
	task *model.DownloadTask
	last float64
}

func (e *Engine) newProgress(task *model.DownloadTask) *progress {
	return &progress{fn: e.onProgress, task: task, last: -1}
}

func (p *progress) report(fraction float64) {
	if p.fn == nil {
		return
	}
	if fraction > 1 {
		fraction = 1
	}
	if fraction-p.last < progressStep && fraction < 1 {
		return
	}
	if fraction >= 1 && p.last >= 1 {
		return
	}
	p.last = fraction
	p.fn(p.task, fraction)
}
