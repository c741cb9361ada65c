package download

import (
	"context"
	"net/http"

	"github.com/ytget/course-dl/internal/model"
)

// Fetcher opens streaming GET requests. With 0 <= offset <= end a bounded
// byte range is requested; with end < 0 and offset > 0 an open-ended one.
type Fetcher interface {
	Open(ctx context.Context, url string, offset, end int64) (*http.Response, error)
}

// Executor runs a single task to completion
type Executor interface {
	Execute(ctx context.Context, task *model.DownloadTask) error
}

// ProgressFunc receives a task's completion fraction in 0..1
type ProgressFunc func(task *model.DownloadTask, fraction float64)
