package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ytget/course-dl/internal/model"
	"github.com/ytget/course-dl/internal/platform"
)

// copyBufferSize is the chunk size used when streaming bodies to disk
const copyBufferSize = 256 << 10

func (e *Engine) executeFile(ctx context.Context, task *model.DownloadTask, content model.FileContent) error {
	op := "downloading " + task.GetDisplayTitle()
	resp, err := e.fetcher.Open(ctx, content.URL, 0, -1)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	p := e.newProgress(task)
	tmp := task.TempPath()
	written, err := streamToFile(ctx, op, resp.Body, tmp, resp.ContentLength, p.report)
	if err != nil {
		return err
	}
	if resp.ContentLength >= 0 && written != resp.ContentLength {
		os.Remove(tmp)
		return model.Errorf(model.ErrorKindNetwork, op, "received %d of %d bytes", written, resp.ContentLength)
	}
	return platform.CommitFile(tmp, task.Path)
}

// streamToFile copies body into a fresh file at path and syncs it. total,
// when positive, scales progress reports. Read failures are network errors,
// write failures are classified by platform.ClassifyWriteError.
func streamToFile(ctx context.Context, op string, body io.Reader, path string, total int64, report func(float64)) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, platform.DefaultFilePermissions)
	if err != nil {
		return 0, platform.ClassifyWriteError(op, err)
	}

	buf := make([]byte, copyBufferSize)
	var written int64
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := f.Write(buf[:n]); err != nil {
				f.Close()
				return written, platform.ClassifyWriteError(op, err)
			}
			written += int64(n)
			if total > 0 {
				report(float64(written) / float64(total))
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			f.Close()
			if ctx.Err() != nil {
				return written, ctx.Err()
			}
			return written, model.NewError(model.ErrorKindNetwork, op, readErr)
		}
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return written, platform.ClassifyWriteError(op, err)
	}
	if err := f.Close(); err != nil {
		return written, platform.ClassifyWriteError(op, err)
	}
	return written, nil
}

// checkRangeResponse makes sure a ranged request was honoured. A plain 200
// is only acceptable when the whole body was requested.
func checkRangeResponse(op string, resp *http.Response, offset int64) error {
	if resp.StatusCode == http.StatusPartialContent || (offset == 0 && resp.StatusCode == http.StatusOK) {
		return nil
	}
	return model.NewError(model.ErrorKindNetwork, op,
		fmt.Errorf("server ignored range request at offset %d (status %s)", offset, resp.Status))
}
